package auth

import (
	"bytes"
	"fmt"
	"image/png"
	"net/url"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/synogpt/synogpt/internal/common"
)

// Issuer is the account issuer shown in authenticator apps.
const Issuer = "SynoGPT"

// VerifyCode checks a 6-digit TOTP code against the user's secret for the
// current time window. A mismatch is common.ErrOTPMismatch; there is no
// attempt counter or lockout.
func VerifyCode(code, secret string) error {
	if !totp.Validate(code, secret) {
		return common.ErrOTPMismatch
	}
	return nil
}

// ProvisioningURI builds the otpauth:// URL encoding the shared secret for
// enrollment, with the user's email as the account name.
func ProvisioningURI(secret, email string) string {
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", Issuer)

	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + Issuer + ":" + email,
		RawQuery: v.Encode(),
	}
	return u.String()
}

// EnrollmentQR renders the provisioning URI as a PNG QR code of the given
// pixel size, for the first-login enrollment screen.
func EnrollmentQR(secret, email string, size int) ([]byte, error) {
	key, err := otp.NewKeyFromURL(ProvisioningURI(secret, email))
	if err != nil {
		return nil, fmt.Errorf("auth: build otp key: %w", err)
	}

	img, err := key.Image(size, size)
	if err != nil {
		return nil, fmt.Errorf("auth: render qr: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("auth: encode qr png: %w", err)
	}
	return buf.Bytes(), nil
}
