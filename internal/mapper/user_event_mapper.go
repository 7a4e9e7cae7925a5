package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"ecommerce-recs-be/internal/entity"
	"ecommerce-recs-be/internal/model"
)

type UserEventMapper struct{}

func NewUserEventMapper() *UserEventMapper {
	return &UserEventMapper{}
}

func (m *UserEventMapper) ToEntity(e *model.UserEvent) *entity.UserEvent {
	if e == nil {
		return nil
	}
	var attrs map[string]interface{}
	if len(e.Attributes) > 0 {
		// Attributes written by this service are always a JSON object, so a
		// decode failure only means the row predates the current schema.
		_ = json.Unmarshal(e.Attributes, &attrs)
	}
	return &entity.UserEvent{
		Id:         e.Id,
		UserId:     e.UserId,
		SessionId:  e.SessionId,
		EventType:  e.EventType,
		ProductId:  e.ProductId,
		Timestamp:  e.Timestamp,
		Attributes: attrs,
	}
}

func (m *UserEventMapper) ToEntities(events []model.UserEvent) []entity.UserEvent {
	result := make([]entity.UserEvent, 0, len(events))
	for i := range events {
		result = append(result, *m.ToEntity(&events[i]))
	}
	return result
}

func (m *UserEventMapper) ToModel(e *entity.UserEvent) (*model.UserEvent, error) {
	if e == nil {
		return nil, nil
	}
	var attrs datatypes.JSON
	if e.Attributes != nil {
		raw, err := json.Marshal(e.Attributes)
		if err != nil {
			return nil, err
		}
		attrs = datatypes.JSON(raw)
	}
	return &model.UserEvent{
		Id:         e.Id,
		UserId:     e.UserId,
		SessionId:  e.SessionId,
		EventType:  e.EventType,
		ProductId:  e.ProductId,
		Timestamp:  e.Timestamp,
		Attributes: attrs,
	}, nil
}
