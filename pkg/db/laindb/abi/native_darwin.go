package abi

const libraryName = "liblaindb.dylib"
