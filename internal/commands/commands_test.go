package commands_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"taskpad/internal/commands"
	"taskpad/internal/config"
	"taskpad/internal/exitcode"
	"taskpad/internal/logging"
	"taskpad/internal/service"
	"taskpad/internal/session"
	"taskpad/internal/testutil"
)

// testEnv bundles what the dispatcher would hand a command.
type testEnv struct {
	cfg  *config.Config
	svc  *testutil.FakeService
	sess *session.Manager
}

// newEnv creates an environment backed by a FakeService. With loggedIn the
// fake's token is stored and the session resolved.
func newEnv(t *testing.T, loggedIn bool) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Dir:    dir,
		View:   config.ViewCards,
		Logger: logging.Discard(),
	}
	svc := testutil.NewFakeService()
	store := session.NewStore(filepath.Join(dir, config.SessionFile))
	sess := session.NewManager(store, svc, cfg.Logger)

	if loggedIn {
		if err := store.Save(svc.Token); err != nil {
			t.Fatal(err)
		}
		if _, err := sess.Resolve(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	return &testEnv{cfg: cfg, svc: svc, sess: sess}
}

func (e *testEnv) run(cmd commands.Command, args ...string) (stdout, stderr string, code int) {
	var outBuf, errBuf bytes.Buffer
	code = cmd.Run(context.Background(), e.cfg, e.sess, e.svc, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// seed adds tasks in server order: "Laundry", "Taxes" (pinned), "Groceries"
// with two todos. Listed order is Taxes, Laundry, Groceries.
func (e *testEnv) seed() {
	e.svc.AddTask(service.Task{Title: "Laundry", Description: "whites"})
	e.svc.AddTask(service.Task{Title: "Taxes", Description: "due soon", IsPinned: true})
	e.svc.AddTask(service.Task{Title: "Groceries", Description: "weekly", TodoList: []service.TodoItem{
		{Title: "milk"},
		{Title: "eggs", IsComplete: true},
	}})
}

func expectCode(t *testing.T, got, want int, stderr string) {
	t.Helper()
	if got != want {
		t.Errorf("expected exit code %d, got %d (stderr %q)", want, got, stderr)
	}
}

func TestVersionCommand(t *testing.T) {
	e := newEnv(t, false)
	stdout, stderr, code := e.run(&commands.VersionCmd{})

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "taskpad 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestHelpCommand(t *testing.T) {
	e := newEnv(t, false)
	stdout, stderr, code := e.run(&commands.HelpCmd{})

	expectCode(t, code, exitcode.Success, stderr)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "help", stdout)
}

func TestHelpMentionsEveryCommand(t *testing.T) {
	e := newEnv(t, false)
	stdout, _, _ := e.run(&commands.HelpCmd{})
	for _, cmd := range commands.DefaultRegistry.All() {
		if !strings.Contains(stdout, "taskpad "+cmd.Name()) {
			t.Errorf("help does not mention %s", cmd.Name())
		}
	}
}

func TestTasksCommand_PinnedFirst(t *testing.T) {
	e := newEnv(t, true)
	e.seed()

	stdout, stderr, code := e.run(&commands.TasksCmd{})
	expectCode(t, code, exitcode.Success, stderr)

	taxes := strings.Index(stdout, "1. Taxes [pinned]")
	laundry := strings.Index(stdout, "2. Laundry")
	groceries := strings.Index(stdout, "3. Groceries")
	if taxes < 0 || laundry < 0 || groceries < 0 {
		t.Fatalf("missing tasks in output:\n%s", stdout)
	}
	if !(taxes < laundry && laundry < groceries) {
		t.Errorf("unexpected order:\n%s", stdout)
	}
	if !strings.Contains(stdout, "todos 1/2") {
		t.Errorf("expected todo summary:\n%s", stdout)
	}
}

func TestTasksCommand_Table(t *testing.T) {
	e := newEnv(t, true)
	e.seed()

	cmd := &commands.TasksCmd{}
	cmd.SetTable(true)
	stdout, stderr, code := e.run(cmd)
	expectCode(t, code, exitcode.Success, stderr)
	for _, want := range []string{"TITLE", "Taxes", "yes", "1/2"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in table:\n%s", want, stdout)
		}
	}
}

func TestTasksCommand_TableFromConfig(t *testing.T) {
	e := newEnv(t, true)
	e.seed()
	e.cfg.View = config.ViewTable

	stdout, _, _ := e.run(&commands.TasksCmd{})
	if !strings.Contains(stdout, "DESCRIPTION") {
		t.Errorf("expected table view:\n%s", stdout)
	}
}

func TestTasksCommand_Empty(t *testing.T) {
	e := newEnv(t, true)
	stdout, stderr, code := e.run(&commands.TasksCmd{})
	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", stdout)
	}

	e.cfg.Quiet = true
	stdout, _, _ = e.run(&commands.TasksCmd{})
	if stdout != "" {
		t.Errorf("expected no output in quiet mode, got %q", stdout)
	}
}

func TestTasksCommand_BackendError(t *testing.T) {
	e := newEnv(t, true)
	e.svc.ListTasksErr = errors.New("boom")

	stdout, stderr, code := e.run(&commands.TasksCmd{})
	expectCode(t, code, exitcode.BackendError, stderr)
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: backend error: boom\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestTasksCommand_Unauthorized(t *testing.T) {
	e := newEnv(t, true)
	e.svc.ListTasksErr = fmt.Errorf("%w: Invalid token", service.ErrUnauthorized)

	_, stderr, code := e.run(&commands.TasksCmd{})
	expectCode(t, code, exitcode.AuthError, stderr)
	if !strings.HasPrefix(stderr, "error: auth error:") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestShowCommand(t *testing.T) {
	e := newEnv(t, true)
	e.seed()
	e.svc.AddTask(service.Task{Title: "Extra"})

	stdout, stderr, code := e.run(&commands.ShowCmd{}, "3")
	expectCode(t, code, exitcode.Success, stderr)
	for _, want := range []string{"3. Groceries\n", "weekly\n", "   1  [ ] milk\n", "   2  [x] eggs\n"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in:\n%s", want, stdout)
		}
	}
}

func TestShowCommand_Errors(t *testing.T) {
	e := newEnv(t, true)
	e.seed()

	tests := []struct {
		args   []string
		stderr string
	}{
		{nil, "error: task reference required\n"},
		{[]string{"9"}, "error: task number out of range: 9\n"},
		{[]string{"0"}, "error: task number out of range: 0\n"},
		{[]string{"x"}, "error: invalid task reference: x\n"},
		{[]string{"1.2"}, "error: expected a task number, got 1.2\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			_, stderr, code := e.run(&commands.ShowCmd{}, tt.args...)
			expectCode(t, code, exitcode.UserError, stderr)
			if stderr != tt.stderr {
				t.Errorf("expected %q, got %q", tt.stderr, stderr)
			}
		})
	}
}

func TestAddCommand(t *testing.T) {
	e := newEnv(t, true)

	cmd := &commands.AddCmd{}
	cmd.SetFields("for the trip", "passport, tickets", "passport", "  ", "tickets")
	stdout, stderr, code := e.run(cmd, "Pack", "bags")
	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}

	got := e.svc.Tasks()
	if len(got) != 1 {
		t.Fatalf("expected 1 task, got %d", len(got))
	}
	task := got[0]
	if task.Title != "Pack bags" || task.Description != "for the trip" || task.Body != "passport, tickets" {
		t.Errorf("unexpected task %+v", task)
	}
	if len(task.TodoList) != 2 || task.TodoList[0].Title != "passport" || task.TodoList[1].Title != "tickets" {
		t.Errorf("blank todos should be skipped, got %+v", task.TodoList)
	}
	for _, todo := range task.TodoList {
		if todo.IsComplete {
			t.Error("new todos start incomplete")
		}
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	e := newEnv(t, true)
	e.cfg.Quiet = true

	cmd := &commands.AddCmd{}
	cmd.SetFields("d", "b")
	stdout, _, code := e.run(cmd, "t")
	if code != exitcode.Success || stdout != "" {
		t.Errorf("expected silent success, got code=%d stdout=%q", code, stdout)
	}
}

func TestAddCommand_RequiredFields(t *testing.T) {
	tests := []struct {
		name       string
		desc, body string
		args       []string
		stderr     string
	}{
		{"no title", "d", "b", nil, "error: title required\n"},
		{"blank title", "d", "b", []string{"  "}, "error: title required\n"},
		{"no description", "", "b", []string{"t"}, "error: description required\n"},
		{"no body", "d", " ", []string{"t"}, "error: body required\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, true)
			cmd := &commands.AddCmd{}
			cmd.SetFields(tt.desc, tt.body)
			_, stderr, code := e.run(cmd, tt.args...)
			expectCode(t, code, exitcode.UserError, stderr)
			if stderr != tt.stderr {
				t.Errorf("expected %q, got %q", tt.stderr, stderr)
			}
			if e.svc.Calls["CreateTask"] != 0 {
				t.Error("no create expected")
			}
		})
	}
}

func TestAddCommand_BackendError(t *testing.T) {
	e := newEnv(t, true)
	e.svc.CreateTaskErr = errors.New("server returned 500: oops")

	cmd := &commands.AddCmd{}
	cmd.SetFields("d", "b")
	_, stderr, code := e.run(cmd, "t")
	expectCode(t, code, exitcode.BackendError, stderr)
	if stderr != "error: backend error: server returned 500: oops\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRmCommand_UsesListedNumbering(t *testing.T) {
	e := newEnv(t, true)
	e.seed()

	stdout, stderr, code := e.run(&commands.RmCmd{}, "1")
	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	for _, task := range e.svc.Tasks() {
		if task.Title == "Taxes" {
			t.Error("task 1 is the pinned task and should be gone")
		}
	}
	if len(e.svc.Tasks()) != 2 {
		t.Errorf("expected 2 tasks left, got %d", len(e.svc.Tasks()))
	}
}

func TestRmCommand_OutOfRange(t *testing.T) {
	e := newEnv(t, true)
	e.seed()

	_, stderr, code := e.run(&commands.RmCmd{}, "4")
	expectCode(t, code, exitcode.UserError, stderr)
	if stderr != "error: task number out of range: 4\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if e.svc.Calls["DeleteTask"] != 0 {
		t.Error("no delete expected")
	}
}

func TestPinCommand_Toggles(t *testing.T) {
	e := newEnv(t, true)
	e.seed()

	stdout, stderr, code := e.run(&commands.PinCmd{}, "2")
	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "pinned\n" {
		t.Errorf("expected pinned, got %q", stdout)
	}
	if !e.svc.Tasks()[0].IsPinned {
		t.Error("Laundry should be pinned")
	}

	// Both pinned now, so server order puts Laundry first.
	stdout, _, _ = e.run(&commands.PinCmd{}, "2")
	if stdout != "unpinned\n" {
		t.Errorf("expected unpinned, got %q", stdout)
	}
	if e.svc.Tasks()[1].IsPinned {
		t.Error("Taxes should be unpinned")
	}
}

func TestPinCommand_SyncFailure(t *testing.T) {
	e := newEnv(t, true)
	e.seed()
	e.svc.SetPinnedErr = errors.New("request timed out")

	stdout, stderr, code := e.run(&commands.PinCmd{}, "2")
	expectCode(t, code, exitcode.BackendError, stderr)
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: change not saved on server: request timed out\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestCheckCommand_BothForms(t *testing.T) {
	for _, args := range [][]string{{"3.1"}, {"3", "1"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			e := newEnv(t, true)
			e.seed()

			stdout, stderr, code := e.run(&commands.CheckCmd{}, args...)
			expectCode(t, code, exitcode.Success, stderr)
			if stdout != "3.1 done (2/2)\n" {
				t.Errorf("unexpected stdout %q", stdout)
			}
			todos := e.svc.Tasks()[2].TodoList
			if !todos[0].IsComplete || !todos[1].IsComplete {
				t.Errorf("expected both todos complete, got %+v", todos)
			}
		})
	}
}

func TestCheckCommand_Uncheck(t *testing.T) {
	e := newEnv(t, true)
	e.seed()

	stdout, _, code := e.run(&commands.CheckCmd{}, "3.2")
	if code != exitcode.Success || stdout != "3.2 open (0/2)\n" {
		t.Errorf("unexpected result code=%d stdout=%q", code, stdout)
	}
}

func TestCheckCommand_Errors(t *testing.T) {
	e := newEnv(t, true)
	e.seed()

	tests := []struct {
		args   []string
		stderr string
	}{
		{nil, "error: todo reference required\n"},
		{[]string{"3"}, "error: todo number required\n"},
		{[]string{"3.5"}, "error: todo number out of range: 5\n"},
		{[]string{"1", "1"}, "error: todo number out of range: 1\n"},
		{[]string{"7.1"}, "error: task number out of range: 7\n"},
		{[]string{"3", "x"}, "error: invalid todo number: x\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			_, stderr, code := e.run(&commands.CheckCmd{}, tt.args...)
			expectCode(t, code, exitcode.UserError, stderr)
			if stderr != tt.stderr {
				t.Errorf("expected %q, got %q", tt.stderr, stderr)
			}
		})
	}
	if e.svc.Calls["UpdateTodos"] != 0 {
		t.Error("no update expected")
	}
}

func TestProfileCommand(t *testing.T) {
	e := newEnv(t, true)

	stdout, stderr, code := e.run(&commands.ProfileCmd{})
	expectCode(t, code, exitcode.Success, stderr)
	want := "Alice Liddell\nusername  alice\nemail     alice@example.com\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
}

func TestProfileCommand_RefetchesUnresolvedUser(t *testing.T) {
	e := newEnv(t, false)
	if err := e.sess.Store().Save("fake-token"); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := e.run(&commands.ProfileCmd{})
	expectCode(t, code, exitcode.Success, stderr)
	if !strings.HasPrefix(stdout, "Alice Liddell\n") {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if e.svc.Calls["CurrentUser"] != 1 {
		t.Errorf("expected one user fetch, got %d", e.svc.Calls["CurrentUser"])
	}
}

func TestProfileCommand_RejectedTokenCleared(t *testing.T) {
	e := newEnv(t, false)
	if err := e.sess.Store().Save("fake-token"); err != nil {
		t.Fatal(err)
	}
	e.svc.CurrentUserErr = fmt.Errorf("%w: token revoked", service.ErrUnauthorized)

	_, stderr, code := e.run(&commands.ProfileCmd{})
	expectCode(t, code, exitcode.AuthError, stderr)
	if !strings.HasPrefix(stderr, "error: auth error: session expired or revoked") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if e.sess.Store().HasToken() {
		t.Error("rejected token should be cleared")
	}
	if e.sess.State() != session.Anonymous {
		t.Errorf("expected anonymous session, got %v", e.sess.State())
	}
}

func TestProfileCommand_UnreachableKeepsToken(t *testing.T) {
	e := newEnv(t, false)
	if err := e.sess.Store().Save("fake-token"); err != nil {
		t.Fatal(err)
	}
	e.svc.CurrentUserErr = errors.New("connection refused")

	_, stderr, code := e.run(&commands.ProfileCmd{})
	expectCode(t, code, exitcode.BackendError, stderr)
	if !e.sess.Store().HasToken() {
		t.Error("token must survive a failed fetch")
	}
}

func TestContactCommand_DefaultsToUser(t *testing.T) {
	e := newEnv(t, true)

	stdout, stderr, code := e.run(&commands.ContactCmd{}, "hello", "there")
	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	got := e.svc.Contacts()
	want := service.ContactMessage{Name: "Alice Liddell", Email: "alice@example.com", Message: "hello there"}
	if len(got) != 1 || got[0] != want {
		t.Errorf("unexpected contacts %+v", got)
	}
}

func TestContactCommand_ExplicitSender(t *testing.T) {
	e := newEnv(t, true)

	cmd := &commands.ContactCmd{}
	cmd.SetSender("Bob", "bob@example.com")
	if _, stderr, code := e.run(cmd, "hi"); code != exitcode.Success {
		t.Fatalf("unexpected failure %q", stderr)
	}
	if got := e.svc.Contacts()[0]; got.Name != "Bob" || got.Email != "bob@example.com" {
		t.Errorf("unexpected sender %+v", got)
	}
}

func TestContactCommand_Errors(t *testing.T) {
	e := newEnv(t, true)

	_, stderr, code := e.run(&commands.ContactCmd{})
	expectCode(t, code, exitcode.UserError, stderr)
	if stderr != "error: message required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}

	cmd := &commands.ContactCmd{}
	cmd.SetSender("Bob", "not-an-email")
	_, stderr, code = e.run(cmd, "hi")
	expectCode(t, code, exitcode.UserError, stderr)
	if stderr != "error: invalid email: not-an-email\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}

	e.svc.SendContactErr = fmt.Errorf("%w (status 202)", service.ErrContactRejected)
	_, stderr, code = e.run(&commands.ContactCmd{}, "hi")
	expectCode(t, code, exitcode.BackendError, stderr)
	if !strings.Contains(stderr, "contact message not accepted") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
