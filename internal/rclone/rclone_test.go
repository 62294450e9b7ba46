package rclone

import (
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/kriansa/ordo-mount/internal/command"
	"github.com/kriansa/ordo-mount/internal/command/commandtest"
	"github.com/kriansa/ordo-mount/internal/log"
)

func TestMain(m *testing.M) {
	log.Setup(false)
	os.Exit(m.Run())
}

func TestParseRemotes(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []Remote
	}{
		{"empty output", "", []Remote{}},
		{"only newline", "\n", []Remote{}},
		{"single remote", "work:\n", []Remote{"work:"}},
		{"keeps order", "work:\nhome:\narchive:\n", []Remote{"work:", "home:", "archive:"}},
		{"no trailing newline", "work:\nhome:", []Remote{"work:", "home:"}},
		{"trims whitespace", "  work:  \n\thome:\r\n", []Remote{"work:", "home:"}},
		{"drops blank lines", "work:\n\n   \nhome:\n\n", []Remote{"work:", "home:"}},
		{
			"line longer than a scanner token",
			"a:\n" + strings.Repeat("x", 70*1024) + ":\nb:\n",
			[]Remote{"a:", strings.Repeat("x", 70*1024) + ":", "b:"},
		},
		{"accepts anything", "weird name with spaces:\nno-colon\n", []Remote{"weird name with spaces:", "no-colon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRemotes(tt.output)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseRemotes(%q) = %#v, want %#v", tt.output, got, tt.want)
			}
		})
	}
}

func TestCLI_ListRemotes(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		result     *command.Result
		want       []Remote
		wantArgs   []string
		wantErr    bool
	}{
		{
			name:     "lists remotes",
			result:   &command.Result{Output: "work:\nhome:\n"},
			want:     []Remote{"work:", "home:"},
			wantArgs: []string{"listremotes"},
		},
		{
			name:       "passes config path",
			configPath: "/tmp/rclone.conf",
			result:     &command.Result{Output: "work:\n"},
			want:       []Remote{"work:"},
			wantArgs:   []string{"--config", "/tmp/rclone.conf", "listremotes"},
		},
		{
			name:     "no remotes configured",
			result:   &command.Result{Output: ""},
			want:     []Remote{},
			wantArgs: []string{"listremotes"},
		},
		{
			name:     "non-zero exit",
			result:   &command.Result{ExitCode: 1, Output: "Failed to load config\n"},
			want:     []Remote{},
			wantArgs: []string{"listremotes"},
			wantErr:  true,
		},
		{
			name:     "binary missing",
			result:   nil,
			want:     []Remote{},
			wantArgs: []string{"listremotes"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := commandtest.New(nil)
			if tt.result != nil {
				runner.Responses["rclone"] = *tt.result
			}

			c := NewCLI(runner, "rclone", tt.configPath)
			got, err := c.ListRemotes(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("ListRemotes() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrListFailed) {
				t.Errorf("ListRemotes() error = %v, want ErrListFailed", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ListRemotes() = %#v, want %#v", got, tt.want)
			}

			call, ok := runner.Last()
			if !ok {
				t.Fatal("expected rclone to be invoked")
			}
			if call.Name != "rclone" || !reflect.DeepEqual(call.Args, tt.wantArgs) {
				t.Errorf("invoked %s %v, want rclone %v", call.Name, call.Args, tt.wantArgs)
			}
		})
	}
}

func TestCLI_MountArgs(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		extra      []string
		want       []string
	}{
		{
			name: "fixed flags",
			want: []string{"mount", "work:", "/home/u/mounts/work", "--allow-non-empty", "--daemon"},
		},
		{
			name:       "with config and extra args",
			configPath: "/etc/rclone.conf",
			extra:      []string{"--vfs-cache-mode", "writes"},
			want: []string{
				"--config", "/etc/rclone.conf",
				"mount", "work:", "/home/u/mounts/work", "--allow-non-empty", "--daemon",
				"--vfs-cache-mode", "writes",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCLI(commandtest.New(nil), "rclone", tt.configPath)
			got := c.MountArgs("work:", "/home/u/mounts/work", tt.extra...)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MountArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}
