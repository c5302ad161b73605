package robotaua

import "github.com/odudnyk/cvscout/internal/source"

// Site vocabularies for robota.ua. Unlike work.ua the filters travel as
// JSON-encoded query parameters, so the values here are the raw tokens the
// frontend serializes.

var Cities = []source.Option{
	{Filter: "ukraine", Label: "Вся країна"},
	{Filter: "kyiv", Label: "Київ"},
	{Filter: "dnipro", Label: "Дніпро"},
	{Filter: "kharkiv", Label: "Харків"},
	{Filter: "zaporizhia", Label: "Запоріжжя"},
	{Filter: "odessa", Label: "Одеса"},
	{Filter: "lviv", Label: "Львів"},
	{Filter: "other_countries", Label: "Інші країни"},
}

var SearchTypes = []source.Option{
	{Filter: "", Label: "Включно з синонімами"},
	{Filter: "everywhere", Label: "По всьому тексту"},
	{Filter: "speciality", Label: "У назві резюме"},
	{Filter: "education", Label: "В освіті"},
	{Filter: "skills", Label: "У ключових навичках"},
	{Filter: "experience", Label: "У досвіді роботи"},
}

var ExperienceLevels = []source.Option{
	{Filter: "0", Label: "Без досвіду"},
	{Filter: "1", Label: "До 1 року"},
	{Filter: "2", Label: "Від 1 до 2 років"},
	{Filter: "3", Label: "Від 2 до 5 років"},
	{Filter: "4", Label: "Від 5 до 10 років"},
	{Filter: "5", Label: "Понад 10 років"},
}

var Periods = []source.Option{
	{Filter: "", Label: "За 3 місяці"},
	{Filter: "Today", Label: "Сьогодні"},
	{Filter: "ThreeDays", Label: "За 3 дні"},
	{Filter: "Week", Label: "За тиждень"},
	{Filter: "Month", Label: "За місяць"},
	{Filter: "Year", Label: "За рік"},
	{Filter: "All", Label: "За весь час"},
}
