package slug

import (
	"regexp"
	"testing"
)

var validSlug = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Neurosciences", "neurosciences"},
		{"Dr. Émilie Bernard", "dr-emilie-bernard"},
		{"plasticité cérébrale", "plasticite-cerebrale"},
		{"Robotique collaborative: Nouveaux paradigmes d'interaction", "robotique-collaborative-nouveaux-paradigmes-d-interaction"},
		{"  --Étude de Cas--  ", "etude-de-cas"},
		{"Génie Biomédical", "genie-biomedical"},
		{"industrie 4.0", "industrie-4-0"},
		{"Maître de Conférences", "maitre-de-conferences"},
		{"François Lefèvre-Noël", "francois-lefevre-noel"},
	}
	for _, tt := range tests {
		if got := Make(tt.name); got != tt.want {
			t.Errorf("Make(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestMakeAlphabet(t *testing.T) {
	inputs := []string{
		"Ça m'était égal — vraiment !",
		"Œuvre naïve à l'Hôtel-Dieu",
		"Zürich: ETH (Eidgenössische)",
		"«Intelligence Artificielle» & Société",
		"ñandú çà et là",
		"10.1234/abc_def",
	}
	for _, in := range inputs {
		got := Make(in)
		if !validSlug.MatchString(got) {
			t.Errorf("Make(%q) = %q, not a valid slug", in, got)
		}
	}
}

func TestMakeNoAlphanumerics(t *testing.T) {
	if got := Make(" — ! ? "); got != "" {
		t.Errorf("expected empty slug, got %q", got)
	}
}
