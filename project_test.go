package pjc

import "testing"

func TestEncodeFilename(t *testing.T) {
	for _, tc := range []struct {
		in, want string
	}{
		{"sprite.png", "sprite_png"},
		{"assets/sprite.png", "assets_sprite_png"},
	} {
		if got := encodeFilename(tc.in); got != tc.want {
			t.Errorf("encodeFilename(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestProjectAddResource(t *testing.T) {
	p := NewProject()
	ident := p.AddResource("sprite.png", "Indexed", 4, 2, 1)

	if ident != "sprite_png" {
		t.Errorf("AddResource returned %q, want %q", ident, "sprite_png")
	}
	if len(p.Resources) != 1 {
		t.Fatalf("len(Resources)=%d, want 1", len(p.Resources))
	}
	got := p.Resources[0]
	want := ResourceEntry{Filename: "sprite.png", Format: "Indexed", YFrames: 4, XFrames: 2, Loop: 1}
	if got != want {
		t.Errorf("Resources[0]=%+v, want %+v", got, want)
	}
}

func TestProjectAddResourceAccumulates(t *testing.T) {
	p := NewProject()
	p.AddResource("a.png", "Rgb565", 1, 1, 0)
	p.AddResource("b.png", "Indexed", 1, 1, 0)
	if len(p.Resources) != 2 {
		t.Fatalf("len(Resources)=%d, want 2", len(p.Resources))
	}
}
