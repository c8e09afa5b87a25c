package domain

import (
	"regexp"
	"strings"

	"github.com/badoux/checkmail"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/sirupsen/logrus"
)

// Sender is a parsed From header.
type Sender struct {
	Name  string
	Email string
}

var angleAddr = regexp.MustCompile(`^(.*?)\s*<([^<>]+)>\s*$`)

// ParseSender splits a From header into display name and address.
//
//   - RFC 5322 headers (including encoded words) parse directly.
//   - Otherwise `Name <addr>` is split as is, even when addr is not a valid address.
//   - Anything else is used verbatim as both name and address.
//
// A missing display name is replaced by the address.
func ParseSender(header string) Sender {
	header = strings.TrimSpace(header)
	if header == "" {
		return Sender{}
	}

	if addr, err := mail.ParseAddress(header); err == nil {
		return newSender(addr.Name, addr.Address)
	}

	if m := angleAddr.FindStringSubmatch(header); m != nil {
		address := strings.TrimSpace(m[2])
		if err := checkmail.ValidateFormat(address); err != nil {
			logrus.WithField("address", address).Debug("sender address has an unusual format")
		}
		return newSender(m[1], address)
	}

	return Sender{Name: header, Email: header}
}

func newSender(name, address string) Sender {
	name = strings.TrimSpace(strings.Trim(strings.TrimSpace(name), `"'`))
	if name == "" {
		name = address
	}
	return Sender{Name: name, Email: address}
}
