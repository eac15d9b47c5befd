package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// flashKey is the session key holding the one-shot notice shown on the
// next rendered page.
const flashKey = "flash"

func setFlash(store *session.Store, c *fiber.Ctx, msg string) {
	sess, err := store.Get(c)
	if err != nil {
		return
	}
	sess.Set(flashKey, msg)
	_ = sess.Save()
}

// popFlash returns the pending flash message and clears it.
func popFlash(store *session.Store, c *fiber.Ctx) string {
	sess, err := store.Get(c)
	if err != nil {
		return ""
	}
	msg, _ := sess.Get(flashKey).(string)
	if msg != "" {
		sess.Delete(flashKey)
		_ = sess.Save()
	}
	return msg
}
