// Package payment содержит реализации авторизации платежей: заглушку для
// разработки/тестов и HTTP адаптер для внешнего платежного шлюза.
package payment

// Authorization результат попытки авторизации платежа.
type Authorization struct {
	Approved  bool
	Reference string
}
