package notifyservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSendDecisionEmails(t *testing.T) {
	mockMC := new(MockMessageConsumer)
	mockMailer := new(MockMailer)
	mockLogger := new(MockLogger)

	mockLogger.On("Info", "decision email sent", mock.Anything).Return()

	ctx, cancel := context.WithCancel(context.Background())

	s := &NotifyService{
		mb:     mockMC,
		m:      mockMailer,
		logger: mockLogger,
		ctx:    ctx,
		cancel: cancel,
	}

	go s.SendDecisionEmails()

	assert.Eventually(t, mockMailer.IsCalled, 2*time.Second, 50*time.Millisecond)
	assert.Equal(t, "author@netatlas.io", mockMailer.GetEmail())

	mockLogger.AssertExpectations(t)

	t.Cleanup(func() {
		s.Close()
	})
}
