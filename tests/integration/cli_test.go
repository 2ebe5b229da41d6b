//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestCLI runs CLI commands and returns output for testing
type TestCLI struct {
	t       *testing.T
	tempDir string
	dataDir string
	binPath string
	env     []string
}

// NewTestCLI builds the planit binary into a temp dir with its own data dir.
func NewTestCLI(t *testing.T) *TestCLI {
	t.Helper()

	tempDir := TestTempDir(t)
	dataDir := SetupTestEnvironment(t)

	binPath := filepath.Join(tempDir, "planit")
	cmd := exec.Command("go", "build", "-o", binPath, "../../cmd/planit")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build test binary: %v\n%s", err, out)
	}

	env := []string{
		fmt.Sprintf("PLANIT_DATA_DIR=%s", dataDir),
		"HOME=" + tempDir, // Prevent reading from actual home directory
		"LOG_LEVEL=ERROR",
	}

	return &TestCLI{
		t:       t,
		tempDir: tempDir,
		dataDir: dataDir,
		binPath: binPath,
		env:     env,
	}
}

// Run executes a CLI command with given arguments
func (tc *TestCLI) Run(args ...string) (stdout, stderr string, err error) {
	tc.t.Helper()

	cmd := exec.Command(tc.binPath, args...)
	cmd.Env = append(os.Environ(), tc.env...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err = cmd.Run()

	return stdoutBuf.String(), stderrBuf.String(), err
}

// RunExpectSuccess runs a command and expects it to succeed
func (tc *TestCLI) RunExpectSuccess(args ...string) string {
	tc.t.Helper()

	stdout, stderr, err := tc.Run(args...)
	if err != nil {
		tc.t.Logf("Command failed: %s %v", strings.Join(args, " "), err)
		tc.t.Logf("STDOUT: %s", stdout)
		tc.t.Logf("STDERR: %s", stderr)
		tc.t.Fatalf("Expected command to succeed, but it failed")
	}

	return stdout
}

// RunExpectFailure runs a command and expects it to fail
func (tc *TestCLI) RunExpectFailure(args ...string) (stdout, stderr string) {
	tc.t.Helper()

	stdout, stderr, err := tc.Run(args...)
	if err == nil {
		tc.t.Logf("STDOUT: %s", stdout)
		tc.t.Fatalf("Expected command to fail, but it succeeded")
	}

	return stdout, stderr
}

type taskJSON struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Completed    bool     `json:"completed"`
	Tags         []string `json:"tags"`
	ParentTaskID string   `json:"parentTaskId"`
	IsHoliday    bool     `json:"isHoliday"`
}

// Day returns the tasks of date as decoded JSON.
func (tc *TestCLI) Day(date string) []taskJSON {
	tc.t.Helper()

	var tasks []taskJSON
	out := tc.RunExpectSuccess("day", date, "--format", "json")
	if err := json.Unmarshal([]byte(out), &tasks); err != nil {
		tc.t.Fatalf("Failed to decode day output %q: %v", out, err)
	}
	return tasks
}

// TestCLI_AddAndList tests adding tasks and listing a day
func TestCLI_AddAndList(t *testing.T) {
	cli := NewTestCLI(t)

	output := cli.RunExpectSuccess("add", "Standup", "09:15", "#work", "--date", "2030-06-03")
	if !strings.Contains(output, "✓ Created task") {
		t.Errorf("Expected output to contain creation message, got %q", output)
	}
	cli.RunExpectSuccess("add", "Breakfast", "--time", "07:30", "--date", "2030-06-03")

	tasks := cli.Day("2030-06-03")
	if len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "Breakfast" || tasks[1].Title != "Standup" {
		t.Errorf("Expected tasks ordered by time, got %q then %q", tasks[0].Title, tasks[1].Title)
	}

	text := cli.RunExpectSuccess("day", "2030-06-03")
	if !strings.Contains(text, "Standup") || !strings.Contains(text, "#work") {
		t.Errorf("Expected text listing to show title and tags, got: %s", text)
	}
}

// TestCLI_AddValidationFails tests that invalid input exits non-zero
func TestCLI_AddValidationFails(t *testing.T) {
	cli := NewTestCLI(t)

	_, stderr := cli.RunExpectFailure("add", "Bad", "--time", "25:00")
	if !strings.Contains(stderr, "Error:") {
		t.Errorf("Expected an error message on stderr, got %q", stderr)
	}

	_, _ = cli.RunExpectFailure("add", "Bad", "--color", "pink")
}

// TestCLI_RecurringWeek tests recurrence expansion through the week view
func TestCLI_RecurringWeek(t *testing.T) {
	cli := NewTestCLI(t)

	cli.RunExpectSuccess("add", "Gym", "--date", "2030-06-03", "--repeat", "daily", "--every", "2", "--until", "2030-06-09")

	var tasks []taskJSON
	out := cli.RunExpectSuccess("week", "2030-06-05", "--format", "json")
	if err := json.Unmarshal([]byte(out), &tasks); err != nil {
		t.Fatalf("Failed to decode week output: %v", err)
	}

	var dates []string
	for _, task := range tasks {
		dates = append(dates, task.Date)
	}
	want := "2030-06-03,2030-06-05,2030-06-07"
	if got := strings.Join(dates, ","); got != want {
		t.Errorf("Expected occurrences %s, got %s", want, got)
	}
	if tasks[1].ParentTaskID != tasks[0].ID {
		t.Errorf("Expected occurrence to link to its origin %s, got %q", tasks[0].ID, tasks[1].ParentTaskID)
	}
}

// TestCLI_UndoAcrossInvocations tests that history survives process exit
func TestCLI_UndoAcrossInvocations(t *testing.T) {
	cli := NewTestCLI(t)

	cli.RunExpectSuccess("add", "Keep", "--date", "2030-06-03")
	cli.RunExpectSuccess("add", "Oops", "--date", "2030-06-03")

	output := cli.RunExpectSuccess("undo")
	if !strings.Contains(output, "Undid: Add task") {
		t.Errorf("Expected undo message, got %q", output)
	}
	if tasks := cli.Day("2030-06-03"); len(tasks) != 1 || tasks[0].Title != "Keep" {
		t.Errorf("Expected only Keep after undo, got %+v", tasks)
	}

	cli.RunExpectSuccess("redo")
	if tasks := cli.Day("2030-06-03"); len(tasks) != 2 {
		t.Errorf("Expected 2 tasks after redo, got %d", len(tasks))
	}
}

// TestCLI_Holidays tests that holidays show up read-only and stay out of exports
func TestCLI_Holidays(t *testing.T) {
	cli := NewTestCLI(t)
	WriteDataFile(t, cli.dataDir, "holidays.json",
		`{"2030-12-25": {"title": "Christmas Day", "description": "", "type": "public"}}`)

	cli.RunExpectSuccess("add", "Dinner", "19:00", "--date", "2030-12-25")

	tasks := cli.Day("2030-12-25")
	if len(tasks) != 2 || !tasks[0].IsHoliday {
		t.Fatalf("Expected the holiday first, got %+v", tasks)
	}

	output := cli.RunExpectSuccess("rm", tasks[0].ID)
	if !strings.Contains(output, "Nothing deleted") {
		t.Errorf("Expected holiday delete to be a no-op, got %q", output)
	}

	exported := cli.RunExpectSuccess("export", "-o", "-")
	if strings.Contains(exported, "Christmas") {
		t.Errorf("Expected export to exclude holidays, got: %s", exported)
	}
}

// TestCLI_ExportImport tests a JSON round trip through files
func TestCLI_ExportImport(t *testing.T) {
	cli := NewTestCLI(t)

	cli.RunExpectSuccess("add", "Original", "--date", "2030-06-03")
	backup := filepath.Join(cli.tempDir, "backup.json")
	cli.RunExpectSuccess("export", "-o", backup)

	cli.RunExpectSuccess("add", "Later", "--date", "2030-06-04")
	output := cli.RunExpectSuccess("import", backup)
	if !strings.Contains(output, "Imported 1 task(s)") {
		t.Errorf("Expected import summary, got %q", output)
	}
	if tasks := cli.Day("2030-06-04"); len(tasks) != 0 {
		t.Errorf("Expected import to replace all tasks, got %+v", tasks)
	}

	bad := WriteDataFile(t, cli.tempDir, "bad.json", `[1, 2, 3]`)
	_, stderr := cli.RunExpectFailure("import", bad)
	if !strings.Contains(stderr, "malformed import") {
		t.Errorf("Expected malformed import error, got %q", stderr)
	}
	if tasks := cli.Day("2030-06-03"); len(tasks) != 1 {
		t.Errorf("Expected a failed import to change nothing, got %+v", tasks)
	}

	ics := cli.RunExpectSuccess("export", "--format", "ics", "-o", "-")
	if !strings.Contains(ics, "BEGIN:VCALENDAR") || !strings.Contains(ics, "SUMMARY:Original") {
		t.Errorf("Expected an ICS calendar with the task, got: %s", ics)
	}
}

// TestCLI_Help tests that help commands work properly
func TestCLI_Help(t *testing.T) {
	cli := NewTestCLI(t)

	output := cli.RunExpectSuccess("--help")

	if !strings.Contains(output, "task calendar") {
		t.Errorf("Expected help to contain app description, got: %s", output)
	}
	for _, name := range []string{"add", "day", "week", "month", "undo", "redo", "export", "import", "holidays"} {
		if !strings.Contains(output, name) {
			t.Errorf("Expected help to list %s command, got: %s", name, output)
		}
	}
}

// TestCLI_InvalidCommand tests that invalid commands fail properly
func TestCLI_InvalidCommand(t *testing.T) {
	cli := NewTestCLI(t)

	_, stderr := cli.RunExpectFailure("invalid-command")
	if !strings.Contains(stderr, "unknown command") {
		t.Errorf("Expected unknown command error, got %q", stderr)
	}
}
