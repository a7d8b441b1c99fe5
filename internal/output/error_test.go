package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

func TestFormatError_Nil(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatError(&buf, nil, FormatText))
	assert.Empty(t, buf.String())
}

func TestFormatError_UserRejectedIsNotice(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatError(&buf, manorerr.ErrUserRejected, FormatText))
	assert.Equal(t, "Transaction canceled.\n", buf.String())
}

func TestFormatError_Text(t *testing.T) {
	err := manorerr.WithSuggestion(
		manorerr.WithDetails(manorerr.ErrTokenNotFound, map[string]string{"symbol": "XYZ"}),
		"did you mean WLD?")

	var buf bytes.Buffer
	require.NoError(t, FormatError(&buf, err, FormatText))

	out := buf.String()
	assert.Contains(t, out, "Error: token not found")
	assert.Contains(t, out, "symbol: XYZ")
	assert.Contains(t, out, "Suggestion: did you mean WLD?")
}

func TestFormatError_JSON(t *testing.T) {
	err := manorerr.WithDetails(manorerr.ErrTransactionFailed, map[string]string{
		"transaction_id": "tx-1",
	})

	var buf bytes.Buffer
	require.NoError(t, FormatError(&buf, err, FormatJSON))

	var decoded ErrorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "TRANSACTION_FAILED", decoded.Error.Code)
	assert.Equal(t, "tx-1", decoded.Error.Details["transaction_id"])
	assert.Equal(t, manorerr.ExitGeneral, decoded.Error.ExitCode)
}

func TestFormatError_JSON_UserRejectedStaysStructured(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatError(&buf, manorerr.ErrUserRejected, FormatJSON))

	var decoded ErrorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "USER_REJECTED", decoded.Error.Code)
	assert.Equal(t, manorerr.ExitSuccess, decoded.Error.ExitCode)
}

func TestFormatError_PlainError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatError(&buf, errors.New("boom"), FormatText))
	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestFormatSuccess(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatSuccess(&buf, "Deposit confirmed", FormatText))
	assert.Equal(t, "Deposit confirmed\n", buf.String())

	buf.Reset()
	require.NoError(t, FormatSuccess(&buf, "Deposit confirmed", FormatJSON))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "success", decoded["status"])
	assert.Equal(t, "Deposit confirmed", decoded["message"])
}
