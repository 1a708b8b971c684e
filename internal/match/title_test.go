// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "Attention Is All You Need", "attention is all you need"},
		{"punctuation", "BERT: Pre-training of Deep Bidirectional Transformers", "bert pre training of deep bidirectional transformers"},
		{"whitespace collapse", "  a   b\tc  ", "a b c"},
		{"empty", "", ""},
		{"only punctuation", "!?;--", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTitles(t *testing.T) {
	tests := []struct {
		name      string
		expected  string
		actual    string
		threshold float64
		want      bool
	}{
		{"case insensitive exact", "Attention Is All You Need", "attention is all you need", 0.6, true},
		{"punctuation variant", "BERT: Pre-training of Deep Bidirectional Transformers for Language Understanding", "BERT Pre training of Deep Bidirectional Transformers for Language Understanding", 0.6, true},
		{"short embedded in long rejected", "A", "A completely unrelated 50-word title about something else entirely", 0.6, false},
		{"substring with sufficient length", "Deep Residual Learning for Image Recognition", "Deep Residual Learning for Image Recognition (Extended)", 0.6, true},
		{"word subset", "Language Models are Few-Shot Learners", "Language Models are Few-Shot Learners GPT-3", 0.6, true},
		{"jaccard pass", "Learning Deep Features for Scene Recognition", "Deep Features Learning for Recognition of Scenes", 0.5, true},
		{"unrelated", "Attention Is All You Need", "A Survey of Graph Neural Network Applications", 0.6, false},
		{"both empty", "", "", 0.6, false},
		{"one empty", "Attention Is All You Need", "", 0.6, false},
		{"punctuation only actual", "Attention Is All You Need", "?!", 0.6, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Titles(tt.expected, tt.actual, tt.threshold); got != tt.want {
				t.Errorf("Titles(%q, %q, %v) = %v, want %v",
					tt.expected, tt.actual, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestTitlesShortAgainstLongGuard(t *testing.T) {
	// The substring rule must not fire when the shorter title is well
	// under 60% of the longer one's length.
	expected := "Gopher Models"
	actual := "Gopher Models of Burrow Construction in Natural Grassland Habitats of North America"
	if Titles(expected, actual, 0.6) {
		t.Error("short title embedded in a much longer one should not match")
	}
}

func TestTitleContextMismatch(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		title    string
		abstract string
		want     bool
	}{
		{
			name:     "zoology paper for model name",
			expected: "Gopher: Scaling Language Model Training",
			title:    "Gopher tortoise habitat selection",
			abstract: "We study habitat use and breeding behavior of a threatened species, with implications for wildlife conservation and ecosystem management.",
			want:     true,
		},
		{
			name:     "genuine ml paper",
			expected: "Gopher: Scaling Language Model Training",
			title:    "Scaling Language Models: Methods, Analysis and Insights from Training Gopher",
			abstract: "We present an analysis of transformer language model training, evaluation benchmarks, and inference costs.",
			want:     false,
		},
		{
			name:     "single off-domain term insufficient",
			expected: "RoBERTa: A Robustly Optimized BERT Pretraining Approach",
			title:    "A robustly optimized pretraining approach",
			abstract: "The model dataset includes one species annotation task.",
			want:     false,
		},
		{
			name:     "empty inputs",
			expected: "",
			title:    "",
			abstract: "",
			want:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TitleContextMismatch(tt.expected, tt.title, tt.abstract)
			if got != tt.want {
				t.Errorf("TitleContextMismatch(...) = %v, want %v", got, tt.want)
			}
		})
	}
}
