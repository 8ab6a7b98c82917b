package handler

import "QuizBot/model"

const (
	welcomeText = "Привет! 🤗\n\nЯ бот-афиша квизов и барных викторин в Москве.\n\n" +
		"Используйте кнопку <b>Menu</b>, чтобы найти все квизы сегодня или в любой другой день и " +
		"<b>кнопки внизу экрана</b> ⬇️ для поиска по фильтрам\n\n" +
		"- /instruction: 🕵️‍♂️ все возможности бота\n\n"
	welcomeFooter = "Приятного поиска!"

	instructionText = "<b>Инструкция по использованию бота-афиши квизов в Москве:</b>\n\n" +
		"Используйте кнопку <b>Menu</b> (/) рядом с полем ввода текста, " +
		"чтобы увидеть список команд:\n" +
		"- /start: выводит приветственное сообщение.\n" +
		"- /today: покажет список мероприятий, запланированных на сегодня.\n" +
		"- /by_date: предложит выбрать дату из списка всех доступных мероприятий.\n" +
		"- /instruction: прочитать инструкцию.\n\n" +
		"Используйте кнопки внизу экрана для поиска по фильтрам:\n" +
		"- Кнопка \"Организатор\" позволяет выбрать квизы по Организатору.\n" +
		"- Кнопка \"Бар\" позволяет выбрать квизы по месту проведения.\n" +
		"- Кнопка \"Тематика\" позволяет выбрать квизы по их тематике/категории.\n\n" +
		"Если мероприятия по выбранным критериям не найдены, бот сообщит об этом.\n\n"
	instructionFooter = "Выберите фильтр:"

	unknownCommandText = "Не понимаю эту команду. Используйте /start или /instruction."

	todaySearchText = "Ищу мероприятия на сегодня (%s)..."
	todayEmptyText  = "На сегодня (%s) мероприятий не найдено."
	dateEmptyText   = "На дату %s мероприятий не найдено."
	dateFoundText   = "Найдено мероприятий на %s: %d"

	datesErrorText = "Произошла ошибка при получении доступных дат."
	datesEmptyText = "В базе пока нет предстоящих мероприятий с указанными датами."
	chooseDateText = "Выберите дату:"
	dateAckText    = "Запрашиваю мероприятия на %s..."
	dateChosenHTML = "Выбрана дата: <b>%s</b>"

	storeErrorText = "Произошла ошибка при получении данных из базы."

	badTokenAlert = "Ошибка распознавания выбора!"
	badTokenText  = "Не удалось прочитать ваш выбор. Пожалуйста, начните поиск заново."
	staleAlert    = "Эта кнопка уже неактуальна. Начните поиск заново."

	choiceAckText     = "Выбрано: %s. Ищу даты..."
	dateChoiceAckText = "Выбрана дата: %s. Ищу мероприятия..."
	dateChoiceText    = "Выбрана дата: %s\n%s: %s"

	expiredText = "Предыдущий поиск устарел и был сброшен."

	choicesTruncatedText = "Показаны первые %d вариантов."
)

// dimensionTexts are the per-dimension strings of a filter dialogue.
type dimensionTexts struct {
	Button      string // reply keyboard label, also the entry trigger
	Label       string // "<Label>: value" after a date is chosen
	Prompt      string
	ListError   string
	ListEmpty   string
	Chosen      string // %s value
	DatesError  string
	DatesEmpty  string // %s value
	EventsEmpty string // %s value, %s date
	EventsFound string // %s value, %s date, %d count
}

var texts = map[model.Dimension]dimensionTexts{
	model.DimensionOrganizer: {
		Button:      "Организатор",
		Label:       "Организатор",
		Prompt:      "Выберите организатора:",
		ListError:   "Произошла ошибка при получении списка организаторов.",
		ListEmpty:   "На ближайшие даты мероприятий с указанными организаторами не найдено.",
		Chosen:      "Выбран организатор: %s",
		DatesError:  "Произошла ошибка при получении списка дат для выбранного организатора.",
		DatesEmpty:  "Мероприятий от '%s' на ближайшие даты не найдено.",
		EventsEmpty: "Мероприятий от '%s' на дату %s не найдено.",
		EventsFound: "Найдено мероприятий от '%s' на %s: %d",
	},
	model.DimensionVenue: {
		Button:      "Бар",
		Label:       "Место",
		Prompt:      "Выберите место проведения:",
		ListError:   "Произошла ошибка при получении списка мест проведения.",
		ListEmpty:   "На ближайшие даты мероприятий с указанными местами не найдено.",
		Chosen:      "Выбрано место: %s",
		DatesError:  "Произошла ошибка при получении списка дат для выбранного места.",
		DatesEmpty:  "Мероприятий в месте '%s' на ближайшие даты не найдено.",
		EventsEmpty: "Мероприятий в месте '%s' на дату %s не найдено.",
		EventsFound: "Найдено мероприятий в месте '%s' на %s: %d",
	},
	model.DimensionCategory: {
		Button:      "Тематика",
		Label:       "Тематика",
		Prompt:      "Выберите тематику:",
		ListError:   "Произошла ошибка при получении списка тематик.",
		ListEmpty:   "На ближайшие даты мероприятий с указанными тематиками не найдено.",
		Chosen:      "Выбрана тематика: %s",
		DatesError:  "Произошла ошибка при получении списка дат для выбранной тематики.",
		DatesEmpty:  "Мероприятий по тематике '%s' на ближайшие даты не найдено.",
		EventsEmpty: "Мероприятий по тематике '%s' на дату %s не найдено.",
		EventsFound: "Найдено мероприятий по тематике '%s' на %s: %d",
	},
}

// dimensionForButton maps a reply keyboard label to its dimension.
func dimensionForButton(text string) (model.Dimension, bool) {
	for _, d := range model.Dimensions {
		if texts[d].Button == text {
			return d, true
		}
	}
	return model.DimensionNone, false
}
