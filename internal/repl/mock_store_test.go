package repl

import (
	"github.com/stretchr/testify/mock"

	"github.com/eigerco/laindb/pkg/db"
)

type StoreMock struct {
	mock.Mock
}

var _ db.KVStore = (*StoreMock)(nil)

func (s *StoreMock) Get(key string) ([]byte, bool, error) {
	args := s.MethodCalled("Get", key)
	value, _ := args.Get(0).([]byte)
	return value, args.Bool(1), args.Error(2)
}

func (s *StoreMock) Put(key string, value []byte) error {
	args := s.MethodCalled("Put", key, value)
	return args.Error(0)
}

func (s *StoreMock) Erase(key string) error {
	args := s.MethodCalled("Erase", key)
	return args.Error(0)
}

func (s *StoreMock) Close() error {
	args := s.MethodCalled("Close")
	return args.Error(0)
}
