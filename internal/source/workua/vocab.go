package workua

import "github.com/odudnyk/cvscout/internal/source"

// Site vocabularies: the machine filter values work.ua expects paired with
// the labels its own UI shows. Order matters, pickers iterate these as-is.

var Cities = []source.Option{
	{Filter: "", Label: "Вся країна"},
	{Filter: "remote", Label: "Ремоут"},
	{Filter: "dnipro", Label: "Дніпро"},
	{Filter: "odesa", Label: "Одеса"},
	{Filter: "kyiv", Label: "Київ"},
	{Filter: "kharkiv", Label: "Харків"},
	{Filter: "other", Label: "Інші країни"},
}

// SearchTypes hold ready query fragments, not single values.
var SearchTypes = []source.Option{
	{Filter: "", Label: "За замовчуванням"},
	{Filter: "snowide=1", Label: "Тільки у заголовку"},
	{Filter: "notitle=1", Label: "Включно з синонімами"},
	{Filter: "anyword=1", Label: "Шукати будь-яке зі слів"},
}

// SalaryBands map the site's coded salary buckets to hryvnia amounts.
var SalaryBands = []source.Option{
	{Filter: "2", Label: "10000"},
	{Filter: "3", Label: "15000"},
	{Filter: "4", Label: "20000"},
	{Filter: "5", Label: "30000"},
	{Filter: "6", Label: "40000"},
	{Filter: "7", Label: "50000"},
	{Filter: "8", Label: "100000"},
}

var ExperienceLevels = []source.Option{
	{Filter: "0", Label: "Без досвіду"},
	{Filter: "1", Label: "До 1 року"},
	{Filter: "164", Label: "Від 1 до 2 років"},
	{Filter: "165", Label: "Від 2 до 5 років"},
	{Filter: "166", Label: "Понад 5 років"},
}

var Periods = []source.Option{
	{Filter: "", Label: "За 3 місяці"},
	{Filter: "1", Label: "За 1 день"},
	{Filter: "2", Label: "За тиждень"},
	{Filter: "3", Label: "За 30 днів"},
	{Filter: "5", Label: "За рік"},
	{Filter: "6", Label: "За весь час"},
}
