package captcha

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/quizhub/quizhub/internal/pkg/env"
	"github.com/quizhub/quizhub/internal/pkg/httperr"
)

// HeaderName carries the client captcha response token.
const HeaderName = "X-Captcha-Token"

const verifyEndpoint = "https://www.google.com/recaptcha/api/siteverify"

var httpClient = &http.Client{Timeout: 10 * time.Second}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks the captcha token against the reCAPTCHA verify API.
func Verify(secret string, token string) (bool, error) {
	formData := url.Values{
		"secret":   {secret},
		"response": {token},
	}

	resp, err := httpClient.PostForm(verifyEndpoint, formData)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var response verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return false, err
	}

	if !response.Success && len(response.ErrorCodes) > 0 {
		log.Printf("captcha validation failed: %s", strings.Join(response.ErrorCodes, ", "))
	}

	return response.Success, nil
}

// Protect gates a route behind captcha validation. When the server has
// no captcha secret configured the check is skipped entirely.
func Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := env.GetEnv("RECAPTCHA_SECRET_KEY", "")
		if secret == "" {
			return c.Next()
		}

		captchaToken := c.Get(HeaderName)
		if captchaToken == "" {
			return httperr.CaptchaMissing
		}

		valid, err := Verify(secret, captchaToken)
		if err != nil {
			log.Printf("captcha verify request failed: %v", err)
			return httperr.CaptchaRequest
		}
		if !valid {
			return httperr.CaptchaFailed
		}

		return c.Next()
	}
}
