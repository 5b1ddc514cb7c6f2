package utils

// MaskCredential masks a credential for display and sanitized export,
// keeping the first and last four characters.
func MaskCredential(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
