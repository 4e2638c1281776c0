package avatar

import (
	"encoding/base64"

	"github.com/avachat/avachat-web/internal/apperr"
)

// Credentials holds the two mutually exclusive authentication modes
// for the rendering service. When both are set the API key wins.
type Credentials struct {
	APIKey    string
	BasicUser string
	BasicPass string
}

// AuthHeader resolves the Authorization header value for a request, or
// a ConfigurationError when neither mode is configured.
func (c Credentials) AuthHeader() (string, error) {
	if c.APIKey != "" {
		return "Basic " + c.APIKey, nil
	}
	if c.BasicUser != "" && c.BasicPass != "" {
		token := base64.StdEncoding.EncodeToString([]byte(c.BasicUser + ":" + c.BasicPass))
		return "Basic " + token, nil
	}
	return "", &apperr.ConfigurationError{Msg: "avatar service credentials are not configured"}
}
