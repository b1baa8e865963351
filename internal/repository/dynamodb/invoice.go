package dynamodb

import (
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamotypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"github.com/invobill/invobill/internal/config"
	"github.com/invobill/invobill/internal/domain/invoice"
	"github.com/invobill/invobill/internal/dynamodb"
	ierr "github.com/invobill/invobill/internal/errors"
	"github.com/invobill/invobill/internal/logger"
	"github.com/invobill/invobill/internal/types"
)

const ownerIndex = "owner_id-index"

type invoiceRepository struct {
	client         *dynamodb.Client
	invoicesTable  string
	sequencesTable string
	logger         *logger.Logger
}

func NewInvoiceRepository(client *dynamodb.Client, cfg *config.Configuration, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{
		client:         client,
		invoicesTable:  cfg.DynamoDB.InvoicesTable,
		sequencesTable: cfg.DynamoDB.SequencesTable,
		logger:         logger,
	}
}

// invoiceDocument is the DynamoDB shape of an invoice. Decimal amounts are
// stored as strings to keep full precision across round trips.
type invoiceDocument struct {
	ID            string             `dynamodbav:"id"`
	OwnerID       string             `dynamodbav:"owner_id"`
	InvoiceNumber string             `dynamodbav:"invoice_number"`
	InvoiceDate   time.Time          `dynamodbav:"invoice_date"`
	DueDate       time.Time          `dynamodbav:"due_date"`
	BillFrom      partyDocument      `dynamodbav:"bill_from"`
	BillTo        partyDocument      `dynamodbav:"bill_to"`
	LineItems     []lineItemDocument `dynamodbav:"line_items"`
	Notes         string             `dynamodbav:"notes"`
	PaymentTerms  string             `dynamodbav:"payment_terms"`
	Discount      string             `dynamodbav:"discount"`
	Subtotal      string             `dynamodbav:"subtotal"`
	TaxTotal      string             `dynamodbav:"tax_total"`
	Total         string             `dynamodbav:"total"`
	Status        string             `dynamodbav:"status"`
	CreatedAt     time.Time          `dynamodbav:"created_at"`
	UpdatedAt     time.Time          `dynamodbav:"updated_at"`
}

type partyDocument struct {
	Name    string `dynamodbav:"name"`
	Email   string `dynamodbav:"email"`
	Address string `dynamodbav:"address"`
	Phone   string `dynamodbav:"phone"`
}

type lineItemDocument struct {
	ID         string `dynamodbav:"id"`
	Name       string `dynamodbav:"name"`
	Quantity   string `dynamodbav:"quantity"`
	UnitPrice  string `dynamodbav:"unit_price"`
	TaxPercent string `dynamodbav:"tax_percent"`
	Total      string `dynamodbav:"total"`
}

func toDocument(inv *invoice.Invoice) *invoiceDocument {
	doc := &invoiceDocument{
		ID:            inv.ID,
		OwnerID:       inv.OwnerID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		BillFrom: partyDocument{
			Name:    inv.BillFrom.BusinessName,
			Email:   inv.BillFrom.Email,
			Address: inv.BillFrom.Address,
			Phone:   inv.BillFrom.Phone,
		},
		BillTo: partyDocument{
			Name:    inv.BillTo.ClientName,
			Email:   inv.BillTo.Email,
			Address: inv.BillTo.Address,
			Phone:   inv.BillTo.Phone,
		},
		Notes:        inv.Notes,
		PaymentTerms: string(inv.PaymentTerms),
		Discount:     inv.Discount.String(),
		Subtotal:     inv.Subtotal.String(),
		TaxTotal:     inv.TaxTotal.String(),
		Total:        inv.Total.String(),
		Status:       string(inv.Status),
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}

	doc.LineItems = make([]lineItemDocument, len(inv.LineItems))
	for i, item := range inv.LineItems {
		doc.LineItems[i] = lineItemDocument{
			ID:         item.ID,
			Name:       item.Name,
			Quantity:   item.Quantity.String(),
			UnitPrice:  item.UnitPrice.String(),
			TaxPercent: item.TaxPercent.String(),
			Total:      item.Total.String(),
		}
	}

	return doc
}

func fromDocument(doc *invoiceDocument) (*invoice.Invoice, error) {
	discount, err := parseAmount(doc.Discount)
	if err != nil {
		return nil, err
	}
	subtotal, err := parseAmount(doc.Subtotal)
	if err != nil {
		return nil, err
	}
	taxTotal, err := parseAmount(doc.TaxTotal)
	if err != nil {
		return nil, err
	}
	total, err := parseAmount(doc.Total)
	if err != nil {
		return nil, err
	}

	items := make([]*invoice.LineItem, len(doc.LineItems))
	for i, itemDoc := range doc.LineItems {
		quantity, err := parseAmount(itemDoc.Quantity)
		if err != nil {
			return nil, err
		}
		unitPrice, err := parseAmount(itemDoc.UnitPrice)
		if err != nil {
			return nil, err
		}
		taxPercent, err := parseAmount(itemDoc.TaxPercent)
		if err != nil {
			return nil, err
		}
		itemTotal, err := parseAmount(itemDoc.Total)
		if err != nil {
			return nil, err
		}

		items[i] = &invoice.LineItem{
			ID:         itemDoc.ID,
			Name:       itemDoc.Name,
			Quantity:   quantity,
			UnitPrice:  unitPrice,
			TaxPercent: taxPercent,
			Total:      itemTotal,
		}
	}

	return &invoice.Invoice{
		ID:            doc.ID,
		OwnerID:       doc.OwnerID,
		InvoiceNumber: doc.InvoiceNumber,
		InvoiceDate:   doc.InvoiceDate,
		DueDate:       doc.DueDate,
		BillFrom: invoice.BillFrom{
			BusinessName: doc.BillFrom.Name,
			Email:        doc.BillFrom.Email,
			Address:      doc.BillFrom.Address,
			Phone:        doc.BillFrom.Phone,
		},
		BillTo: invoice.BillTo{
			ClientName: doc.BillTo.Name,
			Email:      doc.BillTo.Email,
			Address:    doc.BillTo.Address,
			Phone:      doc.BillTo.Phone,
		},
		LineItems:    items,
		Notes:        doc.Notes,
		PaymentTerms: types.PaymentTerms(doc.PaymentTerms),
		Discount:     discount,
		Subtotal:     subtotal,
		TaxTotal:     taxTotal,
		Total:        total,
		Status:       types.InvoiceStatus(doc.Status),
		BaseModel: types.BaseModel{
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		},
	}, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ierr.WithError(err).
			WithHint("Failed to read stored invoice").
			Mark(ierr.ErrDatabase)
	}
	return d, nil
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	item, err := attributevalue.MarshalMap(toDocument(inv))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to store invoice").
			Mark(ierr.ErrDatabase)
	}

	_, err = r.client.DB().PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName:           aws.String(r.invoicesTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var conditionFailed *dynamotypes.ConditionalCheckFailedException
		if ierr.As(err, &conditionFailed) {
			return ierr.NewError("invoice already exists").
				WithHint("Invoice already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to store invoice").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	out, err := r.client.DB().GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.invoicesTable),
		Key: map[string]dynamotypes.AttributeValue{
			"id": &dynamotypes.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load invoice").
			Mark(ierr.ErrDatabase)
	}

	if out.Item == nil {
		return nil, invoice.ErrInvoiceNotFound
	}

	var doc invoiceDocument
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read stored invoice").
			Mark(ierr.ErrDatabase)
	}

	return fromDocument(&doc)
}

// queryOwner pages through the owner index and returns every matching
// document. Offset pagination is applied by the caller after sorting since
// DynamoDB only supports cursor-style continuation.
func (r *invoiceRepository) queryOwner(ctx context.Context, filter *types.InvoiceFilter) ([]invoiceDocument, error) {
	input := &awsdynamodb.QueryInput{
		TableName:              aws.String(r.invoicesTable),
		IndexName:              aws.String(ownerIndex),
		KeyConditionExpression: aws.String("owner_id = :owner"),
		ExpressionAttributeValues: map[string]dynamotypes.AttributeValue{
			":owner": &dynamotypes.AttributeValueMemberS{Value: filter.OwnerID},
		},
	}

	if filter.Status != "" {
		input.FilterExpression = aws.String("#status = :status")
		input.ExpressionAttributeNames = map[string]string{"#status": "status"}
		input.ExpressionAttributeValues[":status"] = &dynamotypes.AttributeValueMemberS{Value: string(filter.Status)}
	}

	var docs []invoiceDocument
	for {
		out, err := r.client.DB().Query(ctx, input)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to list invoices").
				Mark(ierr.ErrDatabase)
		}

		var page []invoiceDocument
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to read stored invoices").
				Mark(ierr.ErrDatabase)
		}
		docs = append(docs, page...)

		if out.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	return docs, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	docs, err := r.queryOwner(ctx, filter)
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})

	start := filter.GetOffset()
	if start >= len(docs) {
		return []*invoice.Invoice{}, nil
	}
	end := start + filter.GetLimit()
	if end > len(docs) {
		end = len(docs)
	}

	result := make([]*invoice.Invoice, 0, end-start)
	for _, doc := range docs[start:end] {
		inv, err := fromDocument(&doc)
		if err != nil {
			return nil, err
		}
		result = append(result, inv)
	}

	return result, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	docs, err := r.queryOwner(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	item, err := attributevalue.MarshalMap(toDocument(inv))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to store invoice").
			Mark(ierr.ErrDatabase)
	}

	_, err = r.client.DB().PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName:           aws.String(r.invoicesTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var conditionFailed *dynamotypes.ConditionalCheckFailedException
		if ierr.As(err, &conditionFailed) {
			return invoice.ErrInvoiceNotFound
		}
		return ierr.WithError(err).
			WithHint("Failed to store invoice").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.DB().DeleteItem(ctx, &awsdynamodb.DeleteItemInput{
		TableName: aws.String(r.invoicesTable),
		Key: map[string]dynamotypes.AttributeValue{
			"id": &dynamotypes.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var conditionFailed *dynamotypes.ConditionalCheckFailedException
		if ierr.As(err, &conditionFailed) {
			return invoice.ErrInvoiceNotFound
		}
		return ierr.WithError(err).
			WithHint("Failed to delete invoice").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *invoiceRepository) NextInvoiceNumber(ctx context.Context, ownerID string) (string, error) {
	out, err := r.client.DB().UpdateItem(ctx, &awsdynamodb.UpdateItemInput{
		TableName: aws.String(r.sequencesTable),
		Key: map[string]dynamotypes.AttributeValue{
			"owner_id": &dynamotypes.AttributeValueMemberS{Value: ownerID},
		},
		UpdateExpression:         aws.String("ADD #seq :incr"),
		ExpressionAttributeNames: map[string]string{"#seq": "seq"},
		ExpressionAttributeValues: map[string]dynamotypes.AttributeValue{
			":incr": &dynamotypes.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: dynamotypes.ReturnValueUpdatedNew,
	})
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to advance invoice number sequence").
			Mark(ierr.ErrDatabase)
	}

	var seq int64
	if err := attributevalue.Unmarshal(out.Attributes["seq"], &seq); err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to read invoice number sequence").
			Mark(ierr.ErrDatabase)
	}

	return invoice.FormatInvoiceNumber(seq), nil
}
