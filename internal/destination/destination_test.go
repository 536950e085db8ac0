package destination_test

import (
	"testing"

	"ytaudio/internal/destination"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		dest string
		want destination.Kind
	}{
		{"user@host.sub:path", destination.Remote},
		{"host:path", destination.Remote},
		{"user@host:/tmp/x", destination.Remote},
		{"media-box:", destination.Remote},
		{"a.b.c:/srv/audio.m4a", destination.Remote},
		{"/tmp/x", destination.Local},
		{"relative/file.m4a", destination.Local},
		{"file.m4a", destination.Local},
		{"", destination.Local},
		{"-host:path", destination.Local},
		{"host-:path", destination.Local},
		{"user@:path", destination.Local},
		{"./host:path", destination.Local},
		{"host..sub:path", destination.Local},
		{"us er@host:path", destination.Local},
		{"/abs/host:path", destination.Local},
	}
	for _, tc := range cases {
		t.Run(tc.dest, func(t *testing.T) {
			if got := destination.Classify(tc.dest); got != tc.want {
				t.Fatalf("Classify(%q) = %s, want %s", tc.dest, got, tc.want)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if !destination.IsRemote("user@host.sub:path") {
			t.Fatal("expected remote classification on every call")
		}
	}
	if destination.IsRemote("/tmp/x") {
		t.Fatal("expected local classification")
	}
}
