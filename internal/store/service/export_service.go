package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/blob"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportService renders printable spreadsheet documents for outbound
// paperwork and uploads them to blob storage. Rendering failure never blocks
// the business operation; callers log and move on.
type ExportService struct {
	blobs  blob.Store
	logger *zap.Logger
}

func NewExportService(blobs blob.Store, logger *zap.Logger) *ExportService {
	return &ExportService{blobs: blobs, logger: logger}
}

// PurchaseOrderDocument renders the PO sent to the supplier and returns the
// stored document URL.
func (s *ExportService) PurchaseOrderDocument(ctx context.Context, po *entity.PurchaseOrder) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Purchase Order"
	f.SetSheetName("Sheet1", sheet)

	s.writeHeader(f, sheet, "PURCHASE ORDER", [][2]string{
		{"PO Number", po.PONumber},
		{"Status", po.Status},
		{"Delivery Address", po.DeliveryAddress},
		{"Payment Terms", po.PaymentTerms},
	})

	headers := []string{"#", "Item Code", "Item Name", "Unit", "Quantity", "Unit Price", "Tax %", "Line Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 7)
		f.SetCellValue(sheet, cell, h)
	}
	row := 8
	for i, item := range po.Items {
		lineTotal := item.Quantity * item.UnitPrice * (1 + item.TaxRate/100)
		values := []interface{}{
			i + 1, item.ItemCode, item.ItemName, item.Unit,
			item.Quantity, item.UnitPrice, item.TaxRate, lineTotal,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}
	row++
	f.SetCellValue(sheet, fmt.Sprintf("G%d", row), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("H%d", row), po.TotalAmount)
	f.SetCellValue(sheet, fmt.Sprintf("G%d", row+1), "Tax")
	f.SetCellValue(sheet, fmt.Sprintf("H%d", row+1), po.TaxAmount)
	f.SetCellValue(sheet, fmt.Sprintf("G%d", row+2), "Grand Total")
	f.SetCellValue(sheet, fmt.Sprintf("H%d", row+2), po.GrandTotal)

	return s.upload(ctx, f, fmt.Sprintf("documents/po/%s.xlsx", po.PONumber))
}

// GoodsReceiptDocument renders a GRN summary with per-line accepted and
// rejected quantities.
func (s *ExportService) GoodsReceiptDocument(ctx context.Context, grn *entity.GoodsReceiptNote) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Goods Receipt"
	f.SetSheetName("Sheet1", sheet)

	s.writeHeader(f, sheet, "GOODS RECEIPT NOTE", [][2]string{
		{"GRN Number", grn.GRNNumber},
		{"Status", grn.Status},
		{"Invoice Number", grn.InvoiceNumber},
		{"Delivery Note", grn.DeliveryNote},
	})

	headers := []string{"#", "Item Code", "Item Name", "Unit", "Received", "Accepted", "Rejected", "Rejection Reason"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 7)
		f.SetCellValue(sheet, cell, h)
	}
	for i, item := range grn.Items {
		values := []interface{}{
			i + 1, item.ItemCode, item.ItemName, item.Unit,
			item.ReceivedQuantity, item.AcceptedQuantity, item.RejectedQuantity, item.RejectionReason,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, 8+i)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return s.upload(ctx, f, fmt.Sprintf("documents/grn/%s.xlsx", grn.GRNNumber))
}

// MaterialIssueDocument renders the dispatch note accompanying a consignment
// to the receiving college.
func (s *ExportService) MaterialIssueDocument(ctx context.Context, min *entity.MaterialIssueNote) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Material Issue"
	f.SetSheetName("Sheet1", sheet)

	s.writeHeader(f, sheet, "MATERIAL ISSUE NOTE", [][2]string{
		{"MIN Number", min.MINNumber},
		{"Status", min.Status},
		{"Vehicle Number", min.VehicleNumber},
		{"Prepared By", min.PreparedBy},
	})

	headers := []string{"#", "Item Code", "Item Name", "Unit", "Issued Quantity"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 7)
		f.SetCellValue(sheet, cell, h)
	}
	for i, item := range min.Items {
		values := []interface{}{i + 1, item.ItemCode, item.ItemName, item.Unit, item.IssuedQuantity}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, 8+i)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return s.upload(ctx, f, fmt.Sprintf("documents/min/%s.xlsx", min.MINNumber))
}

func (s *ExportService) writeHeader(f *excelize.File, sheet, title string, fields [][2]string) {
	f.SetCellValue(sheet, "A1", title)
	f.SetCellValue(sheet, "A2", "Generated "+time.Now().Format("2006-01-02 15:04"))
	for i, kv := range fields {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", 3+i), kv[0])
		f.SetCellValue(sheet, fmt.Sprintf("B%d", 3+i), kv[1])
	}
}

func (s *ExportService) upload(ctx context.Context, f *excelize.File, path string) (string, error) {
	if s.blobs == nil {
		return "", fmt.Errorf("blob storage not configured")
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return "", fmt.Errorf("render workbook: %w", err)
	}
	url, err := s.blobs.Put(ctx, path, bytes.NewReader(buf.Bytes()), int64(buf.Len()), xlsxContentType)
	if err != nil {
		return "", err
	}
	s.logger.Info("document rendered", zap.String("path", path))
	return url, nil
}
