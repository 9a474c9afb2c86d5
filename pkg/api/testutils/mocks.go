// Package testutils provides mocks and fixtures shared by the api tests.
package testutils

import (
	"fmt"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockLogger is a mock implementation of the Logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...interface{}) {
	m.Called(format, args)
}

// MockCache is a mock implementation of the Cache interface
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, dest interface{}) (bool, error) {
	args := m.Called(key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value interface{}, ttl time.Duration) error {
	args := m.Called(key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCache) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// TestConfig is a simple test implementation of the Config interface
type TestConfig struct {
	Addr        string
	User        string
	Password    string
	Realm       string
	TokenID     string
	TokenSecret string
	Insecure    bool
}

func (c *TestConfig) GetAddr() string        { return c.Addr }
func (c *TestConfig) GetUser() string        { return c.User }
func (c *TestConfig) GetPassword() string    { return c.Password }
func (c *TestConfig) GetRealm() string       { return c.Realm }
func (c *TestConfig) GetTokenID() string     { return c.TokenID }
func (c *TestConfig) GetTokenSecret() string { return c.TokenSecret }
func (c *TestConfig) GetInsecure() bool      { return c.Insecure }

func (c *TestConfig) IsUsingTokenAuth() bool {
	return c.TokenID != "" && c.TokenSecret != ""
}

func (c *TestConfig) GetAPIToken() string {
	if c.IsUsingTokenAuth() {
		return "PVEAPIToken=" + c.User + "@" + c.Realm + "!" + c.TokenID + "=" + c.TokenSecret
	}
	return ""
}

// NewTestConfigWithToken creates a test configuration using token
// authentication pointed at the given server address. Token auth skips the
// ticket login round trip, which keeps httptest fixtures simple.
func NewTestConfigWithToken(addr string) *TestConfig {
	return &TestConfig{
		Addr:        addr,
		User:        "testuser",
		Realm:       "pam",
		TokenID:     "testtoken",
		TokenSecret: "testsecret",
		Insecure:    true,
	}
}

// TestLogger is a simple test logger that captures log messages
type TestLogger struct {
	DebugMessages []string
	InfoMessages  []string
	ErrorMessages []string
}

func (l *TestLogger) Debug(format string, args ...interface{}) {
	l.DebugMessages = append(l.DebugMessages, fmt.Sprintf(format, args...))
}

func (l *TestLogger) Info(format string, args ...interface{}) {
	l.InfoMessages = append(l.InfoMessages, fmt.Sprintf(format, args...))
}

func (l *TestLogger) Error(format string, args ...interface{}) {
	l.ErrorMessages = append(l.ErrorMessages, fmt.Sprintf(format, args...))
}

func (l *TestLogger) Reset() {
	l.DebugMessages = nil
	l.InfoMessages = nil
	l.ErrorMessages = nil
}

// NewTestLogger creates a new test logger
func NewTestLogger() *TestLogger {
	return &TestLogger{}
}
