package script

import (
	"testing"

	"github.com/yanuaroby/rupiahemas/internal/domain"
)

func TestDocumentRender(t *testing.T) {
	t.Parallel()

	doc := &Document{
		Topic: domain.TopicGold,
		Sections: []Section{
			{Header: "JUDUL :", Body: "EMAS ANTAM NAIK", Inline: true},
			{Body: "Kalimat pembuka"},
			{Header: "HARGA EMAS ANTAM", Body: "Rp 1.000.000/gram."},
		},
	}

	want := "JUDUL : EMAS ANTAM NAIK\n\nKalimat pembuka\n\nHARGA EMAS ANTAM\n\nRp 1.000.000/gram."
	if got := doc.Render(); got != want {
		t.Fatalf("Render mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestDocumentRenderEmpty(t *testing.T) {
	t.Parallel()

	doc := &Document{Topic: domain.TopicRupiah}
	if got := doc.Render(); got != "" {
		t.Fatalf("empty document rendered %q", got)
	}
}
