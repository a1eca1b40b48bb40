package vecsnap

import "testing"

func TestInputKinds(t *testing.T) {
	text := Text("a", "b")
	if text.Kind() != KindText || text.Batch() != 2 {
		t.Errorf("text input: kind %v batch %d", text.Kind(), text.Batch())
	}

	img := Image([]float32{1, 2}, []float32{3, 4}, []float32{5, 6})
	if img.Kind() != KindImage || img.Batch() != 3 {
		t.Errorf("image input: kind %v batch %d", img.Kind(), img.Batch())
	}

	var zero Input
	if zero.Kind() != KindNone {
		t.Errorf("zero input: kind %v", zero.Kind())
	}
	if err := zero.validate(); err == nil {
		t.Error("zero input validated")
	}
}

func TestInputDigest(t *testing.T) {
	cases := []struct {
		name string
		a, b Input
		same bool
	}{
		{"identical text", Text("hello"), Text("hello"), true},
		{"different text", Text("hello"), Text("world"), false},
		{"split differs", Text("ab", "c"), Text("a", "bc"), false},
		{"kind differs", Text("x"), Image([]float32{1}), false},
		{"identical image", Image([]float32{1, 2}), Image([]float32{1, 2}), true},
		{"pixel differs", Image([]float32{1, 2}), Image([]float32{1, 3}), false},
		{"row split differs", Image([]float32{1, 2}), Image([]float32{1}, []float32{2}), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.digest() == tc.b.digest(); got != tc.same {
				t.Errorf("digest equality = %v, want %v", got, tc.same)
			}
		})
	}
}
