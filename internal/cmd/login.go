package cmd

import (
	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/hackcal/internal/tui"
)

var LoginCmd = cli.Command{
	Name:  "login",
	Usage: "Logs in to see the private events",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "username",
			Usage: "The username, it is asked for when missing",
		},
	},
	Action: login,
}

var LogoutCmd = cli.Command{
	Name:   "logout",
	Usage:  "Logs out, private events are hidden again",
	Action: logout,
}

var prompt = tui.Prompt

func login(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	s := e.session()
	if s.LoggedIn() {
		e.l.Infof("Already logged in")
		return nil
	}

	user := c.String("username")
	if user == "" {
		if user, err = prompt("Username: ", false); err != nil {
			return err
		}
	}
	pass, err := prompt("Password: ", true)
	if err != nil {
		return err
	}
	if err = s.Login(user, pass); err != nil {
		return err
	}
	e.l.Infof("Logged in successfully")
	return nil
}

func logout(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	if err = e.session().Logout(); err != nil {
		return err
	}
	e.l.Infof("Logged out")
	return nil
}
