package main

import (
	"bytes"
	"testing"
)

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()

	want := map[string]bool{"convert": false, "watch": false, "runs": false, "config": false}
	for _, sub := range root.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootShowsHelpWithoutArgs(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(nil)

	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out.Bytes(), []byte("convert")) {
		t.Fatalf("help output missing convert command:\n%s", out.String())
	}
}
