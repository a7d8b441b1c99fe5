package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// ErrorOutput represents a structured error for JSON output.
type ErrorOutput struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	ExitCode   int               `json:"exit_code"`
}

// FormatError formats an error for display. This is the single place error
// codes become user-facing text; callers elsewhere pass errors through
// untranslated. A user decline is rendered as a notice, not an error.
func FormatError(w io.Writer, err error, format Format) error {
	if err == nil {
		return nil
	}

	if manorerr.IsUserRejected(err) && format != FormatJSON {
		_, writeErr := fmt.Fprintln(w, "Transaction canceled.")
		return writeErr
	}

	if format == FormatJSON {
		return formatErrorJSON(w, err)
	}
	return formatErrorText(w, err)
}

// formatErrorJSON outputs error in JSON format.
func formatErrorJSON(w io.Writer, err error) error {
	output := ErrorOutput{
		Error: ErrorDetail{
			Code:     "GENERAL_ERROR",
			Message:  err.Error(),
			ExitCode: manorerr.ExitGeneral,
		},
	}

	var me *manorerr.ManorError
	if errors.As(err, &me) {
		output.Error = ErrorDetail{
			Code:       me.Code,
			Message:    me.Message,
			Details:    me.Details,
			Suggestion: me.Suggestion,
			ExitCode:   me.ExitCode,
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// formatErrorText outputs error in text format.
func formatErrorText(w io.Writer, err error) error {
	var sb strings.Builder

	var me *manorerr.ManorError
	if errors.As(err, &me) {
		sb.WriteString(fmt.Sprintf("Error: %s\n", me.Message))

		if len(me.Details) > 0 {
			sb.WriteString("\nDetails:\n")
			for k, v := range me.Details {
				sb.WriteString(fmt.Sprintf("  %s: %s\n", k, v))
			}
		}

		if me.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("\nSuggestion: %s\n", me.Suggestion))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Error: %s\n", err.Error()))
	}

	_, writeErr := w.Write([]byte(sb.String()))
	return writeErr
}

// FormatSuccess formats a success message.
func FormatSuccess(w io.Writer, message string, format Format) error {
	if format == FormatJSON {
		output := map[string]string{"status": "success", "message": message}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	}
	_, err := fmt.Fprintln(w, message)
	return err
}
