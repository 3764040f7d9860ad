// internal/room/code.go
//
// Room code syntax.
// A room code groups one host and its viewers. Codes are chosen by clients,
// so the server only checks their shape:
//   - uppercase ASCII letters and digits only ([A-Z0-9]+), case-sensitive.
//   - at most MaxCodeLen characters.

package room

// MaxCodeLen bounds room codes so a client cannot use the path as a
// free-form storage key.
const MaxCodeLen = 64

// ValidCode reports whether code is a well-formed room code.
func ValidCode(code string) bool {
	if len(code) == 0 || len(code) > MaxCodeLen {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if !(c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
