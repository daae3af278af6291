package apisports

import (
	sonic "github.com/bytedance/sonic"

	"github.com/bongdaha/livescore/internal/domain/fixture"
)

// fixturesEnvelope is the common wrapper around every /fixtures answer.
// The provider keeps request parameters and paging in the envelope and the
// actual payload under "response".
type fixturesEnvelope struct {
	Get      string            `json:"get"`
	Errors   map[string]string `json:"-"`
	Results  int               `json:"results"`
	Response []fixture.Fixture `json:"response"`
}

// UnmarshalJSON tolerates the provider's two error shapes: an empty array
// when nothing went wrong, and a string map otherwise.
func (e *fixturesEnvelope) UnmarshalJSON(data []byte) error {
	type alias struct {
		Get      string            `json:"get"`
		Errors   any               `json:"errors"`
		Results  int               `json:"results"`
		Response []fixture.Fixture `json:"response"`
	}
	var decoded alias
	if err := sonic.Unmarshal(data, &decoded); err != nil {
		return err
	}
	e.Get = decoded.Get
	e.Results = decoded.Results
	e.Response = decoded.Response
	e.Errors = nil
	if m, ok := decoded.Errors.(map[string]any); ok && len(m) > 0 {
		e.Errors = make(map[string]string, len(m))
		for key, value := range m {
			if s, ok := value.(string); ok {
				e.Errors[key] = s
			}
		}
	}
	return nil
}
