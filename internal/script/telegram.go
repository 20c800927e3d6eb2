package script

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/yanuaroby/rupiahemas/internal/domain"
)

const telegramFooter = "\n\n────────────────────\nℹ️ <i>Data dari BloombergTechnoz.com</i>"

var titleLine = regexp.MustCompile(`JUDUL : (.+)`)

// DecorateForTelegram wraps a rendered script in the channel layout:
// emoji header, HTML bold on the title and section headers, source
// footer. The **** separator only matters for the voice-over cut and
// is dropped here.
func DecorateForTelegram(text string, topic domain.Topic) string {
	header := fmt.Sprintf("📊 <b>SCRIPT %s</b> 📊\n\n", strings.ToUpper(string(topic)))

	text = strings.ReplaceAll(text, "****", "")
	text = escapeHTML(text)
	text = titleLine.ReplaceAllString(text, "<b>JUDUL : $1</b>")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if len([]rune(stripped)) > 3 && isUpperLine(stripped) {
			lines[i] = "<b>" + stripped + "</b>"
		}
	}

	return header + strings.Join(lines, "\n") + telegramFooter
}

// NoArticleNotice is the message delivered when the site has nothing
// about a topic today.
func NoArticleNotice(topic domain.Topic) string {
	subject := "rupiah"
	if topic == domain.TopicGold {
		subject = "emas/antam"
	}
	return fmt.Sprintf("📊 <b>SCRIPT %s</b> 📊\n\n<b>Tidak ada artikel</b> tentang %s yang ditemukan hari ini.%s",
		strings.ToUpper(string(topic)), subject, telegramFooter)
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// isUpperLine reports whether a line reads as a section header: at
// least one letter and none of them lower-case.
func isUpperLine(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
