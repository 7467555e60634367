package logging

// RedactKey returns a loggable fingerprint of an API key: the last four
// characters, or "unset" when the key is empty. Full keys must never be
// logged.
func RedactKey(key string) string {
	if key == "" {
		return "unset"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
