// internal/httpserver/validate.go
//
// Request decoding and validation shared by every handler.
// Struct tags are checked with go-playground/validator; failures come back
// as {"error":"invalid_request","fields":{"<json name>":"<tag>"}}.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/robalobadob/mastermind/internal/code"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json field names, not Go ones
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// errorBody is the shape of every error response.
type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// decode reads a JSON body into dst and validates it. An empty body is
// accepted when allowEmpty is set (all fields optional).
// It writes the error response itself and reports whether to continue.
func decode(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		switch {
		case allowEmpty && errors.Is(err, io.EOF):
		case errors.Is(err, code.ErrUnknownColor):
			writeError(w, http.StatusBadRequest, "invalid_color")
			return false
		case errors.Is(err, code.ErrLength):
			writeError(w, http.StatusBadRequest, "invalid_guess_length")
			return false
		default:
			writeError(w, http.StatusBadRequest, "bad_json")
			return false
		}
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return false
		}
		body := errorBody{Error: "invalid_request", Fields: map[string]string{}}
		for _, fe := range verrs {
			body.Fields[fe.Field()] = fe.Tag()
		}
		writeJSON(w, http.StatusBadRequest, body)
		return false
	}
	return true
}
