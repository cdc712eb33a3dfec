package http

import "net/http"

type verifyResponse struct {
	OK bool `json:"ok"`
}

// HandleStaffVerify lets a terminal check its stored staff key before
// opening the WebSocket subscription.
func HandleStaffVerify(secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		if !staffKeyOK(r, secret) {
			writeJSON(w, http.StatusUnauthorized, verifyResponse{OK: false})
			return
		}
		writeJSON(w, http.StatusOK, verifyResponse{OK: true})
	}
}
