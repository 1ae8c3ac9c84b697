package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type EnvTestSuite struct {
	suite.Suite
}

func (s *EnvTestSuite) TestProcess() {
	assert.Nil(s.T(), Process())
	assert.NotNil(s.T(), Variables())
	assert.Equal(s.T(), "info", Variables().LogLevel)
	assert.Equal(s.T(), 100, Variables().BatchSize)
	assert.Equal(s.T(), 10*time.Second, Variables().HTTPTimeout)
	assert.Equal(s.T(), "mysql", Variables().DatabaseType)
}

func (s *EnvTestSuite) TestProcessOverrides() {
	s.T().Setenv("DOLPHIN_BATCHSIZE", "25")
	s.T().Setenv("DOLPHIN_TOKEN", "secret")
	assert.Nil(s.T(), Process())
	assert.Equal(s.T(), 25, Variables().BatchSize)
	assert.Equal(s.T(), "secret", Variables().Token)
}

func (s *EnvTestSuite) TestProcessInvalidTypeFailure() {
	s.T().Setenv("DOLPHIN_BATCHSIZE", "not_a_number")
	assert.NotNil(s.T(), Process())
}

func (s *EnvTestSuite) TestProcessInvalidLogLevelFailure() {
	s.T().Setenv("DOLPHIN_LOGLEVEL", "bogus")
	assert.NotNil(s.T(), Process())
}

func TestEnvTestSuite(t *testing.T) {
	suite.Run(t, new(EnvTestSuite))
}
