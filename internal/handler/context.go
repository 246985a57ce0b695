package handler

type ContextKey string

var (
	SubCtxKey  ContextKey = "sub"
	DateCtxKey ContextKey = "date"
	DayCtxKey  ContextKey = "day"
)
