package middleware

import (
	"fmt"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// Recover гасит панику обработчика апдейта и пишет её в лог со стеком.
// Вызывать только через defer.
func Recover(fields log.Fields) {
	r := recover()
	if r == nil {
		return
	}
	log.WithFields(fields).WithFields(log.Fields{
		"component": "panic_recovery",
		"panic":     fmt.Sprintf("%v", r),
		"stack":     string(debug.Stack()),
	}).Error("ПАНИКА в обработчике, восстановлено")
}
