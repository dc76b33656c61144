package businessflow

import (
	"context"
	"strconv"
	"strings"

	"github.com/amirphl/otp-messenger/app/dto"
	"github.com/amirphl/otp-messenger/models"
	"github.com/amirphl/otp-messenger/repository"
	"github.com/xuri/excelize/v2"
)

const messagesSheetName = "Messages"

// MessageFlow handles the sent-message history
type MessageFlow interface {
	ListMessages(ctx context.Context, req *dto.ListMessagesRequest) (*dto.ListMessagesResponse, error)
	ExportMessages(ctx context.Context, req *dto.ListMessagesRequest) (string, []byte, error)
}

type MessageFlowImpl struct {
	messageRepo repository.MessageRepository
}

func NewMessageFlow(messageRepo repository.MessageRepository) MessageFlow {
	return &MessageFlowImpl{messageRepo: messageRepo}
}

func (f *MessageFlowImpl) ListMessages(ctx context.Context, req *dto.ListMessagesRequest) (*dto.ListMessagesResponse, error) {
	messages, err := f.messageRepo.ByFilter(ctx, toMessageFilter(req))
	if err != nil {
		return nil, NewBusinessError("MESSAGE_LIST_FAILED", "Failed to list messages", err)
	}
	total, err := f.messageRepo.Count(ctx, models.MessageFilter{})
	if err != nil {
		return nil, NewBusinessError("MESSAGE_LIST_FAILED", "Failed to count messages", err)
	}

	items := make([]dto.MessageDTO, 0, len(messages))
	for _, m := range messages {
		items = append(items, ToMessageDTO(m))
	}

	return &dto.ListMessagesResponse{
		Messages: items,
		Total:    total,
		Matched:  len(items),
	}, nil
}

// ExportMessages renders the (filtered) history as an XLSX workbook, newest first
func (f *MessageFlowImpl) ExportMessages(ctx context.Context, req *dto.ListMessagesRequest) (string, []byte, error) {
	messages, err := f.messageRepo.ByFilter(ctx, toMessageFilter(req))
	if err != nil {
		return "", nil, NewBusinessError("MESSAGE_LIST_FAILED", "Failed to list messages", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName(xl.GetSheetName(0), messagesSheetName); err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to prepare Excel sheet", err)
	}

	header := []string{"id", "contact_id", "contact_name", "phone_number", "otp", "message", "timestamp"}
	_ = xl.SetSheetRow(messagesSheetName, "A1", &header)

	for i, m := range messages {
		record := []string{
			strconv.FormatInt(m.ID, 10),
			strconv.FormatInt(m.ContactID, 10),
			m.ContactName,
			m.PhoneNumber,
			m.OTP,
			m.Message,
			m.Timestamp,
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = xl.SetSheetRow(messagesSheetName, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	return "messages.xlsx", buf.Bytes(), nil
}

func toMessageFilter(req *dto.ListMessagesRequest) models.MessageFilter {
	filter := models.MessageFilter{}
	if req == nil {
		return filter
	}
	if search := strings.TrimSpace(req.Search); search != "" {
		filter.Search = &search
	}
	filter.ContactID = req.ContactID
	return filter
}
