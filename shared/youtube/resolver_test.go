package youtube

import "testing"

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Watch URL",
			input:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "Watch URL with extra parameters",
			input:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10s",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "Watch URL with parameters before v",
			input:    "https://www.youtube.com/watch?feature=shared&v=dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "Short link",
			input:    "https://youtu.be/dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "Short link with query",
			input:    "https://youtu.be/dQw4w9WgXcQ?si=abc",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "Shorts URL",
			input:    "https://www.youtube.com/shorts/dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "Shorts URL with fragment",
			input:    "https://www.youtube.com/shorts/dQw4w9WgXcQ#top",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "Bare video ID",
			input:    "dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "Bare ID with underscore and dash",
			input:    "a_b-c_d-e_f",
			expected: "a_b-c_d-e_f",
		},
		{
			name:     "Not a URL",
			input:    "not a url",
			expected: "",
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "Ten character token",
			input:    "dQw4w9WgXc",
			expected: "",
		},
		{
			name:     "Twelve character token",
			input:    "dQw4w9WgXcQQ",
			expected: "",
		},
		{
			name:     "Unrelated host with v parameter",
			input:    "https://example.com/watch?v=dQw4w9WgXcQ",
			expected: "",
		},
		{
			name:     "Malformed URL",
			input:    "http://%zz/watch?v=dQw4w9WgXcQ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractVideoID(tt.input); got != tt.expected {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExtractVideoIDIdempotent(t *testing.T) {
	inputs := []string{
		"https://youtu.be/dQw4w9WgXcQ?si=abc",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"dQw4w9WgXcQ",
	}

	for _, input := range inputs {
		first := ExtractVideoID(input)
		if first == "" {
			t.Fatalf("ExtractVideoID(%q) unexpectedly empty", input)
		}
		if second := ExtractVideoID(first); second != first {
			t.Errorf("ExtractVideoID not idempotent for %q: %q != %q", input, second, first)
		}
	}
}
