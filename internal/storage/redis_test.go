package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJDKeywordsKey(t *testing.T) {
	key := JDKeywordsKey("Looking for a Python engineer")

	assert.True(t, strings.HasPrefix(key, jdKeywordsKeyPrefix))
	// SHA-256 的十六进制长度固定
	assert.Len(t, strings.TrimPrefix(key, jdKeywordsKeyPrefix), 64)

	// 同文同键，异文异键
	assert.Equal(t, key, JDKeywordsKey("Looking for a Python engineer"))
	assert.NotEqual(t, key, JDKeywordsKey("Looking for a Rust engineer"))
}
