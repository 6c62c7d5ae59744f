package implementation

import (
	"context"
	"errors"

	"edumentor-be/internal/entity"
	"edumentor-be/internal/mapper"
	"edumentor-be/internal/model"
	"edumentor-be/internal/repository/contract"
	"edumentor-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *MessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, message *entity.Message) error {
	autoSeq := message.Seq == 0
	if autoSeq {
		seq, err := r.NextSeq(ctx, message.SessionId)
		if err != nil {
			return err
		}
		message.Seq = seq
	}
	m := r.mapper.MessageToModel(message)

	_, inTx := r.db.Statement.ConnPool.(gorm.TxCommitter)
	if autoSeq && inTx {
		r.db.WithContext(ctx).SavePoint("message_seq")
	}

	err := r.db.WithContext(ctx).Create(m).Error
	if autoSeq && errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent writer claimed the seq between the read and the
		// insert; reread once and take the next slot
		if inTx {
			r.db.WithContext(ctx).RollbackTo("message_seq")
		}
		seq, serr := r.NextSeq(ctx, message.SessionId)
		if serr != nil {
			return serr
		}
		message.Seq = seq
		m.Seq = seq
		err = r.db.WithContext(ctx).Create(m).Error
	}
	if err != nil {
		return err
	}

	*message = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *MessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var models []*model.Message
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Message, len(models))
	for i, m := range models {
		entities[i] = r.mapper.MessageToEntity(m)
	}
	return entities, nil
}

func (r *MessageRepositoryImpl) NextSeq(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	var max int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("session_id = ?", sessionId).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (r *MessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Message{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
