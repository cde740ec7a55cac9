package tree

import (
	"errors"
	"reflect"
	"testing"

	"github.com/nrtkbb/fsorg/models"
)

func TestPosixPrefix(t *testing.T) {
	tests := []struct {
		path    string
		want    []string
		wantErr error
	}{
		{"/", nil, nil},
		{"/home/user", []string{"home", "user"}, nil},
		{"/home//user/", []string{"home", "user"}, nil},
		{"relative/path", nil, models.ErrInvalidInput},
	}

	p := PosixPrefix{}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := p.Split(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Split() error = %v, want %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split() = %v, want %v", got, tt.want)
			}
			if err == nil && tt.path != "/home//user/" {
				if joined := p.Join(got); joined != tt.path {
					t.Errorf("Join() = %q, want %q", joined, tt.path)
				}
			}
		})
	}
}

func TestDrivePrefix(t *testing.T) {
	tests := []struct {
		path    string
		want    []string
		wantErr error
	}{
		{"C:/", nil, nil},
		{`C:\Users\me`, []string{"Users", "me"}, nil},
		{"c:/Users", []string{"Users"}, nil},
		{"D:/data", nil, models.ErrNotFound},
		{"/usr", nil, models.ErrInvalidInput},
	}

	p := DrivePrefix{Drive: "C:"}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := p.Split(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Split() error = %v, want %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := p.Join([]string{"Users", "me"}); got != "C:/Users/me" {
		t.Errorf("Join() = %q", got)
	}
}
