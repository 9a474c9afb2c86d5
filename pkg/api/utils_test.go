package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetString(t *testing.T) {
	data := map[string]interface{}{
		"name":   "pve1",
		"number": 42.0,
	}

	assert.Equal(t, "pve1", getString(data, "name"))
	assert.Equal(t, "", getString(data, "number"))
	assert.Equal(t, "", getString(data, "missing"))
}

func TestGetFloat(t *testing.T) {
	data := map[string]interface{}{
		"float":  1.5,
		"int":    3,
		"int64":  int64(7),
		"string": "2.25",
		"junk":   "not a number",
	}

	assert.Equal(t, 1.5, getFloat(data, "float"))
	assert.Equal(t, 3.0, getFloat(data, "int"))
	assert.Equal(t, 7.0, getFloat(data, "int64"))
	assert.Equal(t, 2.25, getFloat(data, "string"))
	assert.Equal(t, 0.0, getFloat(data, "junk"))
	assert.Equal(t, 0.0, getFloat(data, "missing"))
}

func TestGetBool(t *testing.T) {
	data := map[string]interface{}{
		"bool":       true,
		"intOne":     1,
		"intZero":    0,
		"floatOne":   1.0,
		"stringOne":  "1",
		"stringTrue": "true",
		"stringNo":   "0",
	}

	assert.True(t, getBool(data, "bool"))
	assert.True(t, getBool(data, "intOne"))
	assert.False(t, getBool(data, "intZero"))
	assert.True(t, getBool(data, "floatOne"))
	assert.True(t, getBool(data, "stringOne"))
	assert.True(t, getBool(data, "stringTrue"))
	assert.False(t, getBool(data, "stringNo"))
	assert.False(t, getBool(data, "missing"))
}

func TestGetInt(t *testing.T) {
	data := map[string]interface{}{
		"int":    5,
		"float":  100.0,
		"string": "101",
	}

	assert.Equal(t, 5, getInt(data, "int"))
	assert.Equal(t, 100, getInt(data, "float"))
	assert.Equal(t, 101, getInt(data, "string"))
	assert.Equal(t, 0, getInt(data, "missing"))
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
		{1099511627776, "1.0 TB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatBytes(tt.bytes))
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		seconds  int64
		expected string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{3661, "1h 1m 1s"},
		{86400, "1d"},
		{90061, "1d 1h 1m 1s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatUptime(tt.seconds))
	}
}

func TestParseVMID(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		expected  int
		expectErr bool
	}{
		{name: "int", input: 100, expected: 100},
		{name: "json number", input: 100.0, expected: 100},
		{name: "numeric string", input: "100", expected: 100},
		{name: "non-numeric string", input: "abc", expectErr: true},
		{name: "nil", input: nil, expectErr: true},
		{name: "bool", input: true, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVMID(tt.input)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
