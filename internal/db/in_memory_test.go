package db

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/airenas/hello-form/internal/api"
)

func ids(entries []*api.FailureEntry) string {
	res := []string{}
	for _, e := range entries {
		res = append(res, e.ID)
	}
	return strings.Join(res, " ")
}

func TestMemoryJournal_List(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		add   int
		limit int
		want  string
	}{
		{name: "empty", size: 3, add: 0, limit: 0, want: ""},
		{name: "partial", size: 3, add: 2, limit: 0, want: "1 0"},
		{name: "full", size: 3, add: 3, limit: 0, want: "2 1 0"},
		{name: "wrapped", size: 3, add: 5, limit: 0, want: "4 3 2"},
		{name: "limited", size: 3, add: 5, limit: 2, want: "4 3"},
		{name: "limit over", size: 3, add: 2, limit: 10, want: "1 0"},
		{name: "zero size", size: 0, add: 2, limit: 0, want: "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mj := NewMemoryJournal(tt.size)
			for i := 0; i < tt.add; i++ {
				if err := mj.Add(context.Background(), &api.FailureEntry{ID: fmt.Sprint(i)}); err != nil {
					t.Fatalf("Add() failed: %v", err)
				}
			}
			got, err := mj.List(context.Background(), tt.limit)
			if err != nil {
				t.Fatalf("List() failed: %v", err)
			}
			if ids(got) != tt.want {
				t.Errorf("List() = %q, want %q", ids(got), tt.want)
			}
		})
	}
}

func TestMemoryJournal_Copies(t *testing.T) {
	mj := NewMemoryJournal(2)
	e := &api.FailureEntry{ID: "a", Detail: "d"}
	_ = mj.Add(context.Background(), e)
	e.Detail = "changed"
	got, _ := mj.List(context.Background(), 0)
	got[0].Detail = "changed again"
	got, _ = mj.List(context.Background(), 0)
	if got[0].Detail != "d" {
		t.Errorf("Detail = %q, want %q", got[0].Detail, "d")
	}
}
