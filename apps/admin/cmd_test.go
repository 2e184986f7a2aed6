package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/darasahub/darasa/core/user"
	inmemdb "github.com/darasahub/darasa/storage/inmem"
	"github.com/darasahub/darasa/tests"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	t.Helper()

	db := inmemdb.Open()
	usrRepo = inmemdb.NewUserRepository(db)

	// start CLI
	return &commandLine{usrRepo: usrRepo}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	pwd        string
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "missing email", args: []string{"adduser", "-username", "awe"}, wantErr: errHelp},
		{name: "bad role", args: []string{"adduser", "-username", "awe", "-email", "awe@test.cd", "-role", "lol"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-username", "awe", "-email", "awe@test.cd"}, wantErr: errHelp},
		{name: "create", args: []string{"adduser", "-username", "awe", "-email", "awe@test.cd"}, pwd: "mdr"},
		{name: "update existing", args: []string{"adduser", "-username", "awe2", "-email", "awe@test.cd", "-role", "teacher"}, pwd: "lol"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			usr, err := usrRepo.GetUserByEmail(context.Background(), "awe@test.cd")
			if err != nil {
				t.Fatalf("GetUserByEmail() failed, %v", err)
			}
			if err := usr.CheckPassword(tt.pwd); err != nil {
				t.Error("password not set")
			}
		})
	}

	usr, err := usrRepo.GetUserByEmail(context.Background(), "awe@test.cd")
	if err != nil {
		t.Fatalf("GetUserByEmail() failed, %v", err)
	}
	if usr.Username != "awe2" {
		t.Errorf("username = %s, want awe2", usr.Username)
	}
	if usr.Role != user.RoleTeacher {
		t.Errorf("role = %s, want %s", usr.Role, user.RoleTeacher)
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "awe", "awe@test.cd", "mdr", user.RoleStudent)

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@test.cd"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.cd"}, pwd: "lol", wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", usr.Email}, pwd: "lmao"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := usrRepo.GetUserByID(context.Background(), usr.ID)
				if err != nil {
					t.Fatalf("GetUserByID() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_ensureIndexes(t *testing.T) {
	cli := setup(t)

	if err := cli.run([]string{"admin", "ensureindexes"}); err != errNoDatabase {
		t.Errorf("cli.run() error = %v, wantErr %v", err, errNoDatabase)
	}
}
