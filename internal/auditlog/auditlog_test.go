package auditlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp:  testTime,
		Actor:      "buchhaltung",
		Action:     ActionClose,
		Details:    "closing 2024 with 6 lines",
		TxnID:      "2025-01-001",
		CommitHash: "abc1234",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, testEntry()))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionClose, entries[0].Action)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, testEntry()))

	e2 := testEntry()
	e2.Action = ActionReverse
	e2.TxnID = "2025-01-002"
	e2.Details = "reverses 2024-03-001: Doppelt erfasst, mit Komma"
	require.NoError(t, Append(dir, e2))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionClose, entries[0].Action)
	assert.Equal(t, ActionReverse, entries[1].Action)
	assert.Equal(t, e2.Details, entries[1].Details)
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := testEntry()
	original.Timestamp = time.Date(2025, 1, 15, 11, 30, 0, 0, time.FixedZone("CET", 3600))
	require.NoError(t, Append(dir, original))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, testTime.Equal(got.Timestamp), "stored in UTC")
	assert.Equal(t, original.Actor, got.Actor)
	assert.Equal(t, original.Action, got.Action)
	assert.Equal(t, original.Details, got.Details)
	assert.Equal(t, original.TxnID, got.TxnID)
	assert.Equal(t, original.CommitHash, got.CommitHash)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(Path(dir), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.ErrorContains(t, err, "expected 6 fields")

	row := MarshalEntry(testEntry())
	row[colAction] = "delete"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, `unknown action "delete"`)

	row = MarshalEntry(testEntry())
	row[colTimestamp] = "yesterday"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing timestamp")
}

func TestTimestampFormat(t *testing.T) {
	row := MarshalEntry(testEntry())
	assert.Equal(t, "2025-01-15T10:30:00Z", row[colTimestamp])
}

func TestForTransaction(t *testing.T) {
	post := Entry{Action: ActionPost, TxnID: "2024-03-001"}
	rev := Entry{Action: ActionReverse, TxnID: "2024-03-002", Details: "reverses 2024-03-001"}
	other := Entry{Action: ActionPost, TxnID: "2024-03-003"}

	got := ForTransaction([]Entry{post, rev, other}, "2024-03-001")
	assert.Equal(t, []Entry{post, rev}, got)
}
