package abi

const libraryName = "liblaindb.so"
