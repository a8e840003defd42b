package store

import (
	"time"

	"github.com/lattica-health/companion-api/api/pkg/types"
)

func (suite *PostgresStoreTestSuite) TestCreateEscalationEvent() {
	conversation := suite.createTestConversation()

	event, err := suite.db.CreateEscalationEvent(suite.ctx, &types.EscalationEvent{
		ConversationID: conversation.ID,
		EventType:      types.EscalationTypePassiveEmotion,
		Severity:       types.EscalationSeverityHigh,
		Reason:         "sustained high distress",
	})
	suite.Require().NoError(err)
	suite.NotEmpty(event.ID)
	suite.False(event.OccurredAt.IsZero())
}

func (suite *PostgresStoreTestSuite) TestCreateEscalationEventRequiresType() {
	event, err := suite.db.CreateEscalationEvent(suite.ctx, &types.EscalationEvent{
		ConversationID: "conv-1",
	})
	suite.Error(err)
	suite.Nil(event)
}

func (suite *PostgresStoreTestSuite) TestListEscalationEventsOrdered() {
	conversation := suite.createTestConversation()

	first := time.Now().Add(-time.Minute)
	second := time.Now()

	_, err := suite.db.CreateEscalationEvent(suite.ctx, &types.EscalationEvent{
		ConversationID: conversation.ID,
		EventType:      types.EscalationTypeDoctorRedirect,
		QuestionText:   "Can you change my trigger shot dose?",
		Reason:         "medication question",
		OccurredAt:     second,
	})
	suite.Require().NoError(err)

	_, err = suite.db.CreateEscalationEvent(suite.ctx, &types.EscalationEvent{
		ConversationID: conversation.ID,
		EventType:      types.EscalationTypePassiveEmotion,
		Severity:       types.EscalationSeverityMedium,
		Reason:         "elevated anxiety",
		OccurredAt:     first,
	})
	suite.Require().NoError(err)

	events, err := suite.db.ListEscalationEvents(suite.ctx, conversation.ID)
	suite.Require().NoError(err)
	suite.Require().Len(events, 2)
	suite.Equal(types.EscalationTypePassiveEmotion, events[0].EventType)
	suite.Equal(types.EscalationTypeDoctorRedirect, events[1].EventType)
}

func (suite *PostgresStoreTestSuite) TestListEscalationEventsEmpty() {
	conversation := suite.createTestConversation()

	events, err := suite.db.ListEscalationEvents(suite.ctx, conversation.ID)
	suite.Require().NoError(err)
	suite.Empty(events)
}
