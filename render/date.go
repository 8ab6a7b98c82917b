package render

import (
	"fmt"
	"time"
)

var monthsGenitive = [...]string{
	"Января", "Февраля", "Марта", "Апреля", "Мая", "Июня",
	"Июля", "Августа", "Сентября", "Октября", "Ноября", "Декабря",
}

// indexed by time.Weekday
var weekdays = [...]string{
	"Воскресенье", "Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота",
}

// FormatDate formats t as dd.mm.yyyy.
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// DateLabel is the button text for a date, e.g. "17 Мая, Суббота".
func DateLabel(t time.Time) string {
	return fmt.Sprintf("%d %s, %s", t.Day(), monthsGenitive[t.Month()-1], weekdays[t.Weekday()])
}
