package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
)

const timeLayout = "2006-01-02 15:04"

// checkAuth drops the session when the server rejects its token.
func (a *App) checkAuth(err error) error {
	if err != nil && errors.Is(err, common.ErrorUnauthorized) && a.session != nil {
		a.session = nil
		a.email = ""
		a.println("Session is no longer valid, please login again")
	}
	return err
}

func (a *App) readPassword(label string) (string, error) {
	pw, err := promptSecret(a.out, label)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func (a *App) Register(ctx context.Context) error {
	name, err := promptLine(a.reader, a.out, "Name")
	if err != nil {
		return err
	}
	surname, err := promptLine(a.reader, a.out, "Surname")
	if err != nil {
		return err
	}
	email, err := promptLine(a.reader, a.out, "E-mail")
	if err != nil {
		return err
	}
	password, err := a.readPassword("Password")
	if err != nil {
		return err
	}

	p, err := a.api.Register(ctx, name, surname, email, password)
	if err != nil {
		return err
	}
	a.println("Registered", p.Email, "- you can login now")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := promptLine(a.reader, a.out, "E-mail")
	if err != nil {
		return err
	}
	password, err := a.readPassword("Password")
	if err != nil {
		return err
	}

	s, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.session = &s
	a.email = email
	a.println("Logged in as", email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if a.session == nil {
		a.println("Not logged in")
		return nil
	}
	a.session = nil
	a.email = ""
	a.println("Logged out")
	return nil
}

func (a *App) Me(ctx context.Context) error {
	s, ok := a.currentSession()
	if !ok {
		return nil
	}
	p, err := a.api.Profile(ctx, s)
	if err != nil {
		return a.checkAuth(err)
	}
	a.printProfile(p)
	return nil
}

func (a *App) printProfile(p *models.Profile) {
	a.println("ID:       ", p.ID)
	a.println("Name:     ", p.Name, p.Surname)
	a.println("E-mail:   ", p.Email)
	if !p.CreatedAt.IsZero() {
		a.println("Since:    ", p.CreatedAt.Local().Format(timeLayout))
	}
	a.println("Favorites:", len(p.Favorites))
}

func (a *App) Update(ctx context.Context) error {
	s, ok := a.currentSession()
	if !ok {
		return nil
	}

	var upd models.UserUpdate
	fields := []struct {
		prompt string
		dst    **string
	}{
		{"New name (empty to keep)", &upd.Name},
		{"New surname (empty to keep)", &upd.Surname},
		{"New e-mail (empty to keep)", &upd.Email},
	}
	for _, f := range fields {
		v, err := promptLine(a.reader, a.out, f.prompt)
		if err != nil {
			return err
		}
		if v != "" {
			*f.dst = &v
		}
	}

	password, err := a.readPassword("New password (empty to keep)")
	if err != nil {
		return err
	}
	if password != "" {
		upd.Password = &password
	}

	if upd == (models.UserUpdate{}) {
		a.println("Nothing to update")
		return nil
	}

	p, err := a.api.UpdateProfile(ctx, s, upd)
	if err != nil {
		return a.checkAuth(err)
	}
	a.email = p.Email
	a.println("Profile updated")
	a.printProfile(p)
	return nil
}

func (a *App) DeleteAccount(ctx context.Context) error {
	s, ok := a.currentSession()
	if !ok {
		return nil
	}
	answer, err := promptLine(a.reader, a.out, "Type 'yes' to delete your account and all your notes")
	if err != nil {
		return err
	}
	if answer != "yes" {
		a.println("Cancelled")
		return nil
	}
	if err := a.api.DeleteAccount(ctx, s); err != nil {
		return a.checkAuth(err)
	}
	a.session = nil
	a.email = ""
	a.println("Account deleted")
	return nil
}

func (a *App) Notes(ctx context.Context, args []string) error {
	s, ok := a.currentSession()
	if !ok {
		return nil
	}

	var (
		notes []models.Note
		err   error
	)
	if len(args) > 0 && args[0] == "mine" {
		notes, err = a.api.MyNotes(ctx, s)
	} else {
		notes, err = a.api.Notes(ctx, s)
	}
	if err != nil {
		return a.checkAuth(err)
	}

	if len(notes) == 0 {
		a.println("No notes")
		return nil
	}
	for _, n := range notes {
		flag := ""
		if n.Private {
			flag = " (private)"
		}
		a.println(fmt.Sprintf("[%s] %s%s %s", n.ID, n.Date.Local().Format(timeLayout), flag, n.AuthorID))
		for _, line := range strings.Split(n.Text, "\n") {
			a.println("    " + line)
		}
	}
	return nil
}

func (a *App) AddNote(ctx context.Context, args []string) error {
	s, ok := a.currentSession()
	if !ok {
		return nil
	}
	private := len(args) > 0 && args[0] == "private"

	text, err := promptText(a.reader, a.out, "Note text")
	if err != nil {
		return err
	}

	n, err := a.api.AddNote(ctx, s, text, private)
	if err != nil {
		return a.checkAuth(err)
	}
	a.println("Note saved:", n.ID)
	return nil
}

func (a *App) RemoveNote(ctx context.Context, args []string) error {
	s, ok := a.currentSession()
	if !ok {
		return nil
	}
	if len(args) == 0 {
		a.println("Usage: rmnote <id>")
		return nil
	}
	if err := a.api.DeleteNote(ctx, s, args[0]); err != nil {
		return a.checkAuth(err)
	}
	a.println("Note deleted:", args[0])
	return nil
}

func (a *App) Ducks(ctx context.Context, args []string) error {
	query := strings.Join(args, " ")
	if query == "" {
		a.println("Usage: ducks <query>")
		return nil
	}
	ducks, err := a.api.SearchDucks(ctx, query)
	if err != nil {
		return err
	}
	a.printDucks(ducks)
	return nil
}

func (a *App) printDucks(ducks []models.Duck) {
	if len(ducks) == 0 {
		a.println("No ducks")
		return
	}
	for _, d := range ducks {
		a.println(fmt.Sprintf("[%s] %s  %s", d.ID, d.Title, d.Price))
	}
}

func (a *App) Favorite(ctx context.Context, args []string) error {
	s, ok := a.currentSession()
	if !ok {
		return nil
	}
	if len(args) == 0 {
		a.println("Usage: fav <id>")
		return nil
	}
	fav, err := a.api.ToggleFavorite(ctx, s, args[0])
	if err != nil {
		return a.checkAuth(err)
	}
	if fav {
		a.println("Duck", args[0], "added to favorites")
	} else {
		a.println("Duck", args[0], "removed from favorites")
	}
	return nil
}

func (a *App) Favorites(ctx context.Context) error {
	s, ok := a.currentSession()
	if !ok {
		return nil
	}
	ducks, err := a.api.Favorites(ctx, s)
	if err != nil {
		return a.checkAuth(err)
	}
	a.printDucks(ducks)
	return nil
}
