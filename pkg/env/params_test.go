package env

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type StartParamsSuite struct {
	suite.Suite
}

func TestStartParamsSuite(t *testing.T) {
	suite.Run(t, new(StartParamsSuite))
}

func (s *StartParamsSuite) TestDecodePopulatesFields() {
	var params StartParams
	s.Require().NoError(params.Decode(`{"bizdate":"20240101","env":"prod"}`))
	s.Equal(StartParams{"bizdate": "20240101", "env": "prod"}, params)
}

func (s *StartParamsSuite) TestDecodeEmpty() {
	var params StartParams
	s.Require().NoError(params.Decode("  "))
	s.Empty(params)
}

func (s *StartParamsSuite) TestDecodeInvalid() {
	var params StartParams
	s.Error(params.Decode(`["not","an","object"]`))
}

func (s *StartParamsSuite) TestMerge() {
	params := StartParams{"env": "prod", "bizdate": "20240101"}
	s.Equal(map[string]string{"env": "staging", "bizdate": "20240101"}, params.Merge(map[string]string{"env": "staging"}))
	s.Nil(StartParams(nil).Merge(nil))
}

func (s *StartParamsSuite) TestProcessReadsVariable() {
	s.T().Setenv("DOLPHIN_STARTPARAMS", `{"env":"qa"}`)
	s.Require().NoError(Process())
	s.Equal(StartParams{"env": "qa"}, Variables().StartParams)
}
