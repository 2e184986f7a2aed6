package emailsvc

import (
	"sync"

	"github.com/darasahub/darasa/core"
)

// dummyService records outgoing messages in memory. Intended for tests.
type dummyService struct {
	mutex        sync.Mutex
	SentMessages []core.EmailMessage
}

var _ core.EmailService = (*dummyService)(nil)

func NewDummyService() *dummyService {
	return &dummyService{}
}

func (svc *dummyService) SendMessages(messages ...*core.EmailMessage) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	for _, msg := range messages {
		if msg.HasRecipients() && msg.HasContent() {
			svc.SentMessages = append(svc.SentMessages, *msg)
		}
	}
}

func (svc *dummyService) Reset() {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()
	svc.SentMessages = nil
}
