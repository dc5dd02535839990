package batch

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dateadded/pkg/timestamp"
)

// fakeOps records calls and serves canned results per path.
type fakeOps struct {
	values  map[string]int64 // path -> epoch seconds; absent means not tracked
	getErr  map[string]error
	setErr  map[string]error
	setSeen []string
}

func (f *fakeOps) GetDateAdded(path string) (time.Time, bool, error) {
	if err := f.getErr[path]; err != nil {
		return time.Time{}, false, err
	}
	sec, ok := f.values[path]
	if !ok {
		return time.Time{}, false, nil
	}
	return time.Unix(sec, 0), true, nil
}

func (f *fakeOps) SetDateAdded(path string, v timestamp.Value) error {
	if _, err := timestamp.ToTimeSpec(v); err != nil {
		return err
	}
	if err := f.setErr[path]; err != nil {
		return err
	}
	f.setSeen = append(f.setSeen, path)
	return nil
}

func newRunner(ops *fakeOps) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewRunner(ops, logger, &stdout, &stderr), &stdout, &stderr
}

func TestGetPrintsTimestampPerPath(t *testing.T) {
	when := time.Date(2024, 1, 15, 18, 0, 37, 0, time.Local)
	ops := &fakeOps{values: map[string]int64{"/tmp/x.txt": when.Unix()}}
	r, stdout, stderr := newRunner(ops)

	if err := r.Get([]string{"/tmp/x.txt"}, ""); err != nil {
		t.Fatalf("get: %v", err)
	}
	want := "2024-01-15T18:00:37,/tmp/x.txt\n"
	if stdout.String() != want {
		t.Fatalf("stdout = %q, want %q", stdout.String(), want)
	}
	if stderr.Len() != 0 {
		t.Fatalf("unexpected stderr: %q", stderr.String())
	}
}

func TestGetNotTrackedGoesToStderr(t *testing.T) {
	ops := &fakeOps{
		values: map[string]int64{"/tmp/b": 1705341637},
	}
	r, stdout, stderr := newRunner(ops)

	if err := r.Get([]string{"/tmp/a", "/tmp/b"}, ""); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(stderr.String(), "/tmp/a") {
		t.Fatalf("expected stderr notice for /tmp/a: %q", stderr.String())
	}
	if !strings.Contains(stdout.String(), "/tmp/b") {
		t.Fatalf("batch must continue past a not-tracked path: %q", stdout.String())
	}
}

func TestGetErrorContinuesBatch(t *testing.T) {
	ops := &fakeOps{
		values: map[string]int64{"/tmp/b": 1705341637},
		getErr: map[string]error{"/tmp/a": fmt.Errorf("getattrlist /tmp/a: permission denied")},
	}
	r, stdout, stderr := newRunner(ops)

	if err := r.Get([]string{"/tmp/a", "/tmp/b"}, ""); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(stderr.String(), "permission denied") {
		t.Fatalf("stderr = %q", stderr.String())
	}
	if !strings.Contains(stdout.String(), "/tmp/b") {
		t.Fatalf("batch must continue past a failing path")
	}
}

func TestSetPrintsPerSuccess(t *testing.T) {
	ops := &fakeOps{}
	r, stdout, _ := newRunner(ops)

	if err := r.Set([]string{"2024-01-15T21:20:37,/foo/bar"}, ""); err != nil {
		t.Fatalf("set: %v", err)
	}
	want := "Setting: 2024-01-15T21:20:37,/foo/bar\n"
	if stdout.String() != want {
		t.Fatalf("stdout = %q, want %q", stdout.String(), want)
	}
	if len(ops.setSeen) != 1 || ops.setSeen[0] != "/foo/bar" {
		t.Fatalf("set calls = %v", ops.setSeen)
	}
}

func TestSetMalformedEntryContinues(t *testing.T) {
	ops := &fakeOps{}
	r, stdout, stderr := newRunner(ops)

	entries := []string{
		"2024-01-15T21:20:37_foo_bar", // no comma
		"2024-01-15T21:20:37,/ok",
	}
	if err := r.Set(entries, ""); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !strings.Contains(stderr.String(), "2024-01-15T21:20:37_foo_bar") {
		t.Fatalf("malformed entry not reported: %q", stderr.String())
	}
	if !strings.Contains(stdout.String(), "/ok") {
		t.Fatalf("batch must continue past a malformed entry")
	}
	if len(ops.setSeen) != 1 {
		t.Fatalf("set calls = %v", ops.setSeen)
	}
}

func TestSetMalformedTimestampContinues(t *testing.T) {
	ops := &fakeOps{}
	r, _, stderr := newRunner(ops)

	if err := r.Set([]string{"not-a-date,/foo"}, ""); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !strings.Contains(stderr.String(), "not-a-date") {
		t.Fatalf("parse error not reported: %q", stderr.String())
	}
	if len(ops.setSeen) != 0 {
		t.Fatalf("no set should have happened: %v", ops.setSeen)
	}
}

func TestListFileSkipsCommentsAndBlanks(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "paths.txt")
	content := "# header\n\n/tmp/a\n  /tmp/b  \n#/tmp/c\n"
	if err := os.WriteFile(list, []byte(content), 0644); err != nil {
		t.Fatalf("write list: %v", err)
	}

	ops := &fakeOps{values: map[string]int64{"/tmp/a": 1, "/tmp/b": 2}}
	r, stdout, _ := newRunner(ops)

	if err := r.Get(nil, list); err != nil {
		t.Fatalf("get: %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "/tmp/a") || !strings.Contains(out, "/tmp/b") {
		t.Fatalf("list entries missing: %q", out)
	}
	if strings.Contains(out, "/tmp/c") {
		t.Fatalf("commented entry processed: %q", out)
	}
}

func TestListFileMissing(t *testing.T) {
	ops := &fakeOps{}
	r, _, _ := newRunner(ops)

	if err := r.Get(nil, filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatalf("expected error for missing list file")
	}
}

func TestGetGlobExpansion(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	ops := &fakeOps{values: map[string]int64{a: 1, b: 2}}
	r, stdout, _ := newRunner(ops)

	if err := r.Get([]string{filepath.Join(dir, "*.txt")}, ""); err != nil {
		t.Fatalf("get: %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, a) || !strings.Contains(out, b) {
		t.Fatalf("glob did not expand: %q", out)
	}
}

func TestGetGlobNoMatchKeptLiteral(t *testing.T) {
	pattern := filepath.Join(t.TempDir(), "*.none")
	ops := &fakeOps{}
	r, _, stderr := newRunner(ops)

	if err := r.Get([]string{pattern}, ""); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(stderr.String(), pattern) {
		t.Fatalf("literal pattern not processed: %q", stderr.String())
	}
}

func TestSetEntriesNeverGlobbed(t *testing.T) {
	ops := &fakeOps{}
	r, _, _ := newRunner(ops)

	entry := "2024-01-15T21:20:37,/tmp/*.txt"
	if err := r.Set([]string{entry}, ""); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(ops.setSeen) != 1 || ops.setSeen[0] != "/tmp/*.txt" {
		t.Fatalf("set entry must be taken literally: %v", ops.setSeen)
	}
}
