// Package render turns event rows into Telegram HTML cards.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"QuizBot/model"
)

const (
	notSpecified = "Не указано"
	linkText     = "Перейти"
	noLink       = "Нет ссылки"
)

var (
	htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	hrefEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

	linkPattern = regexp.MustCompile(`^https?://\S+$`)
)

// EscapeHTML escapes the characters Telegram's HTML parse mode treats as markup.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// field returns the escaped value, or the placeholder when it is missing or blank.
func field(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return notSpecified
	}
	return EscapeHTML(*v)
}

// Link renders the "more" line value: an anchor for http(s) URLs, escaped text
// for anything else, a placeholder when there is no URL.
func Link(url *string) string {
	if url == nil || strings.TrimSpace(*url) == "" {
		return noLink
	}
	u := strings.TrimSpace(*url)
	if !linkPattern.MatchString(u) {
		return EscapeHTML(u)
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, hrefEscaper.Replace(u), linkText)
}

// Card renders e for HTML parse mode.
func Card(e model.Event) string {
	date := notSpecified
	if e.Date != nil {
		date = FormatDate(*e.Date)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n\n", field(e.Organizer))
	fmt.Fprintf(&b, "📅 Дата: %s\n", date)
	fmt.Fprintf(&b, "📚 Название: <b>%s</b>\n", field(e.Title))
	fmt.Fprintf(&b, "⏰ Время: %s\n", field(e.StartTime))
	fmt.Fprintf(&b, "🏷️ Тип: %s\n", field(e.Type))
	fmt.Fprintf(&b, "💰 Цена: %s\n", field(e.Price))
	fmt.Fprintf(&b, "🗂️ Категория: %s\n", field(e.Category))
	fmt.Fprintf(&b, "💪 Сложность: %s\n", field(e.Difficulty))
	fmt.Fprintf(&b, "📍 Место: <b>%s</b>\n", field(e.LocationName))
	fmt.Fprintf(&b, "🗺️ Адрес: %s\n", field(e.LocationAddress))
	fmt.Fprintf(&b, "🔗 Подробнее: %s\n", Link(e.URL))
	return b.String()
}

// PlainCard is the fallback sent without a parse mode when the HTML card is
// rejected. The markup is left in place.
func PlainCard(e model.Event) string {
	return "Не удалось отформатировать информацию о мероприятии:\n" + Card(e)
}

// FailedCard is sent when even the plain card cannot be delivered.
const FailedCard = "Не удалось отправить информацию о мероприятии."
