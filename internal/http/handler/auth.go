package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"docflow/internal/http/middleware"
	"docflow/internal/service"
)

// loginPage is the data passed to the login template.
type loginPage struct {
	Flash string
}

// LoginPage renders the login form, showing any pending flash message.
func LoginPage(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return render(c, "login", loginPage{Flash: popFlash(store, c)})
	}
}

// LoginSubmit verifies the posted credentials and binds the session to the
// matching user id. Failed attempts re-render the form with a generic
// message; nothing distinguishes a wrong password from an unknown account.
func LoginSubmit(store *session.Store, auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username := c.FormValue("username")
		password := c.FormValue("password")

		user, err := auth.Login(c.UserContext(), username, password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				return render(c, "login", loginPage{Flash: "Invalid username or password"})
			}
			return err
		}

		sess, err := store.Get(c)
		if err != nil {
			return err
		}
		sess.Set(middleware.SessionUserKey, user.ID)
		if err := sess.Save(); err != nil {
			return err
		}

		return c.Redirect("/", fiber.StatusFound)
	}
}

// Logout clears the current session unconditionally.
func Logout(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err == nil {
			_ = sess.Destroy()
		}
		return c.Redirect("/login", fiber.StatusFound)
	}
}
