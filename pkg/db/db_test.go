package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	cfg := NewConfig("root", "secret", "127.0.0.1", "3307", "voltrix")
	assert.Equal(t,
		"root:secret@tcp(127.0.0.1:3307)/voltrix?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.DSN())

	// 未配置端口时只用host，交给驱动默认3306
	cfg.Port = ""
	assert.Equal(t,
		"root:secret@tcp(127.0.0.1)/voltrix?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.DSN())
}

func TestDSNLockWaitTimeout(t *testing.T) {
	cfg := NewConfig("root", "secret", "db", "3306", "voltrix")
	cfg.LockWaitTimeout = 3
	assert.Contains(t, cfg.DSN(), "&innodb_lock_wait_timeout=3")
}
