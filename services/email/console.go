package emailsvc

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/darasahub/darasa/core"
)

// consoleService writes emails to stdout; used in DEV mode.
type consoleService struct {
	defaultFromEmail mail.Address
	subjPrefix       string
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService(conf *core.Config) core.EmailService {
	return &consoleService{
		defaultFromEmail: conf.DefaultFromEmail,
		subjPrefix:       "[" + conf.AppName + "] ",
	}
}

func (svc consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		if msg.HasRecipients() && msg.HasContent() {
			go svc.send(*msg)
		}
	}
}

func (svc consoleService) send(msg core.EmailMessage) {
	body := new(strings.Builder)
	body.WriteString("From: " + svc.defaultFromEmail.String() + "\n")
	tos := make([]string, len(msg.To))
	for i, to := range msg.To {
		tos[i] = to.String()
	}
	body.WriteString("To: " + strings.Join(tos, ", ") + "\n")
	body.WriteString("Subject: " + svc.subjPrefix + msg.Subject + "\n")
	body.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\n\n")
	body.WriteString(msg.Body)
	fmt.Println(body.String())
}
