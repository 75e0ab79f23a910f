// ABOUTME: Per-entity normalizers for deals, callbacks, data center entries and feedback
// ABOUTME: Accepts camelCase and snake_case spellings of every field
package normalize

import "github.com/harperreed/salesdesk/models"

func Deal(raw Raw) (models.Deal, []Issue) {
	var issues []Issue

	d := models.Deal{
		DealID:           str(raw, "dealId", "deal_id", "id", "_id"),
		CustomerName:     str(raw, "customerName", "customer_name", "customer", "client_name"),
		SalesAgentID:     str(raw, "salesAgentId", "sales_agent_id", "agentId", "agent_id"),
		SalesAgentName:   str(raw, "salesAgentName", "sales_agent_name", "salesAgent", "sales_agent", "agentName", "agent_name"),
		ClosingAgentID:   str(raw, "closingAgentId", "closing_agent_id"),
		ClosingAgentName: str(raw, "closingAgentName", "closing_agent_name", "closingAgent", "closing_agent"),
		Team:             str(raw, "team", "teamName", "team_name", "salesTeam", "sales_team"),
		ServiceTier:      str(raw, "serviceTier", "service_tier", "tier"),
	}

	amount, issue := Amount(raw)
	d.Amount = amount
	if issue != nil {
		issue.Record = recordName("deal", d.DealID)
		issues = append(issues, *issue)
	}

	status, ok := enum(str(raw, "status", "dealStatus", "deal_status"), models.DealPending, models.IsValidDealStatus)
	d.Status = status
	if !ok {
		issues = append(issues, Issue{Record: recordName("deal", d.DealID), Field: "status", Value: status, Reason: "unknown status"})
	}

	created, dateIssue := date(raw, recordName("deal", d.DealID), "createdAt", "created_at", "signupDate", "signup_date", "date")
	d.CreatedAt = created
	if dateIssue != nil {
		issues = append(issues, *dateIssue)
	}

	return d, issues
}

func Callback(raw Raw) (models.Callback, []Issue) {
	var issues []Issue

	c := models.Callback{
		CallbackID:     str(raw, "callbackId", "callback_id", "id", "_id"),
		CustomerName:   str(raw, "customerName", "customer_name", "customer"),
		PhoneNumber:    str(raw, "phoneNumber", "phone_number", "phone"),
		Email:          str(raw, "email"),
		SalesAgentID:   str(raw, "salesAgentId", "sales_agent_id", "agentId", "agent_id", "createdBy", "created_by"),
		SalesAgentName: str(raw, "salesAgentName", "sales_agent_name", "salesAgent", "sales_agent", "createdByName", "created_by_name"),
		Team:           str(raw, "team", "teamName", "team_name"),
		Notes:          str(raw, "notes", "callbackReason", "callback_reason"),
		ScheduledDate:  str(raw, "scheduledDate", "scheduled_date", "callbackDate", "callback_date"),
		ScheduledTime:  str(raw, "scheduledTime", "scheduled_time", "callbackTime", "callback_time"),
	}
	record := recordName("callback", c.CallbackID)

	status, ok := enum(str(raw, "status"), models.CallbackPending, models.IsValidCallbackStatus)
	c.Status = status
	if !ok {
		issues = append(issues, Issue{Record: record, Field: "status", Value: status, Reason: "unknown status"})
	}

	priority, ok := enum(str(raw, "priority"), models.PriorityMedium, models.IsValidPriority)
	c.Priority = priority
	if !ok {
		issues = append(issues, Issue{Record: record, Field: "priority", Value: priority, Reason: "unknown priority"})
	}

	created, dateIssue := date(raw, record, "createdAt", "created_at")
	c.CreatedAt = created
	if dateIssue != nil {
		issues = append(issues, *dateIssue)
	}

	return c, issues
}

func DataCenterEntry(raw Raw) (models.DataCenterEntry, []Issue) {
	var issues []Issue

	e := models.DataCenterEntry{
		ID:          str(raw, "id", "_id", "dataId", "data_id"),
		Title:       str(raw, "title"),
		Description: str(raw, "description"),
		Content:     str(raw, "content"),
		SentToTeam:  str(raw, "sentToTeam", "sent_to_team"),
		SentToID:    str(raw, "sentToId", "sent_to_id"),
		SentByID:    str(raw, "sentById", "sent_by_id", "sentBy", "sent_by"),
		SentByName:  str(raw, "sentByName", "sent_by_name"),
	}
	record := recordName("data", e.ID)

	dataType, ok := enum(str(raw, "dataType", "data_type", "type"), models.DataGeneral, models.IsValidDataType)
	e.DataType = dataType
	if !ok {
		issues = append(issues, Issue{Record: record, Field: "dataType", Value: dataType, Reason: "unknown data type"})
	}

	priority, ok := enum(str(raw, "priority"), models.PriorityMedium, models.IsValidPriority)
	e.Priority = priority
	if !ok {
		issues = append(issues, Issue{Record: record, Field: "priority", Value: priority, Reason: "unknown priority"})
	}

	created, dateIssue := date(raw, record, "createdAt", "created_at")
	e.CreatedAt = created
	if dateIssue != nil {
		issues = append(issues, *dateIssue)
	}

	return e, issues
}

func Feedback(raw Raw) (models.Feedback, []Issue) {
	var issues []Issue

	f := models.Feedback{
		ID:           str(raw, "id", "_id", "feedbackId", "feedback_id"),
		DataID:       str(raw, "dataId", "data_id"),
		UserID:       str(raw, "userId", "user_id"),
		UserName:     str(raw, "userName", "user_name"),
		UserRole:     str(raw, "userRole", "user_role"),
		FeedbackText: str(raw, "feedbackText", "feedback_text", "feedback"),
	}
	record := recordName("feedback", f.ID)

	if rating, ok := integer(raw, "rating"); ok {
		if rating < 1 || rating > 5 {
			issues = append(issues, Issue{Record: record, Field: "rating", Value: rating, Reason: "rating out of range"})
		} else {
			f.Rating = rating
		}
	}

	feedbackType, ok := enum(str(raw, "feedbackType", "feedback_type"), models.FeedbackGeneral, models.IsValidFeedbackType)
	f.FeedbackType = feedbackType
	if !ok {
		issues = append(issues, Issue{Record: record, Field: "feedbackType", Value: feedbackType, Reason: "unknown feedback type"})
	}

	status, ok := enum(str(raw, "status"), models.FeedbackPending, models.IsValidFeedbackStatus)
	f.Status = status
	if !ok {
		issues = append(issues, Issue{Record: record, Field: "status", Value: status, Reason: "unknown status"})
	}

	created, dateIssue := date(raw, record, "createdAt", "created_at")
	f.CreatedAt = created
	if dateIssue != nil {
		issues = append(issues, *dateIssue)
	}

	return f, issues
}

func recordName(kind, id string) string {
	if id == "" {
		return kind + ":?"
	}
	return kind + ":" + id
}
