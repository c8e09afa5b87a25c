package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSender(t *testing.T) {
	cases := []struct {
		header string
		want   Sender
	}{
		{`"Ada Lovelace" <ada@example.com>`, Sender{"Ada Lovelace", "ada@example.com"}},
		{`Ada Lovelace <ada@example.com>`, Sender{"Ada Lovelace", "ada@example.com"}},
		{`ada@example.com`, Sender{"ada@example.com", "ada@example.com"}},
		{`<ada@example.com>`, Sender{"ada@example.com", "ada@example.com"}},
		{`=?UTF-8?B?SsO8cmdlbg==?= <j@example.de>`, Sender{"Jürgen", "j@example.de"}},
		// Not RFC 5322 (unquoted special), rescued by the angle-bracket rule.
		{`Acme, Inc. Billing <billing@acme.example>`, Sender{"Acme, Inc. Billing", "billing@acme.example"}},
		{`Mailer Daemon`, Sender{"Mailer Daemon", "Mailer Daemon"}},
		// Angle-bracket form is split even when the address is not well formed.
		{`Broken <not an address>`, Sender{"Broken", "not an address"}},
		{`Mailer-Daemon <MAILER-DAEMON>`, Sender{"Mailer-Daemon", "MAILER-DAEMON"}},
		{`<postmaster>`, Sender{"postmaster", "postmaster"}},
		{`Missing bracket <x@example.com`, Sender{"Missing bracket <x@example.com", "Missing bracket <x@example.com"}},
		{`   `, Sender{}},
	}

	for _, tc := range cases {
		t.Run(tc.header, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseSender(tc.header))
		})
	}
}
