package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"docflow/internal/service"
)

const (
	// SessionUserKey is the session key holding the authenticated user's id.
	SessionUserKey = "user_id"
	// CurrentUserLocalKey is the context-locals key holding the resolved *model.User.
	CurrentUserLocalKey = "current_user"
)

// RequireUser resolves the current identity from the session cookie and stores
// the user record in context locals. Requests without a valid session are
// redirected to the login page. A session whose user id no longer resolves is
// destroyed before redirecting.
func RequireUser(store *session.Store, auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return c.Redirect("/login", fiber.StatusFound)
		}

		uid, ok := sess.Get(SessionUserKey).(int64)
		if !ok {
			return c.Redirect("/login", fiber.StatusFound)
		}

		user, err := auth.LoadUser(c.UserContext(), uid)
		if err != nil {
			_ = sess.Destroy()
			return c.Redirect("/login", fiber.StatusFound)
		}

		c.Locals(CurrentUserLocalKey, user)
		return c.Next()
	}
}
