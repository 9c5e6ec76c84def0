// Package marketplace submits finished listings to eBay through the Trading
// API. Failures are logged, never propagated: the batch must keep moving.
package marketplace

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Fixed commerce terms for every submission. Price, condition, shipping and
// returns are constants in this version.
const (
	startPrice      = "100.00"
	conditionID     = "1000" // New
	country         = "US"
	currency        = "USD"
	dispatchTimeMax = "3"
	listingDuration = "GTC"
	listingType     = "FixedPriceItem"
	paymentMethod   = "PayPal"
	paypalEmail     = "you@example.com"
	pictureURL      = "http://example.com/picture1.jpg"
	postalCode      = "95125"
	quantity        = "1"
	shippingService = "USPSMedia"
	shippingCost    = "2.50"

	compatibilityLevel = "967"
	defaultEndpoint    = "https://api.ebay.com/ws/api.dll"
)

// Credentials is the Trading API credential file, kept outside the repo.
type Credentials struct {
	DevID     string `yaml:"dev_id"`
	AppID     string `yaml:"app_id"`
	CertID    string `yaml:"cert_id"`
	AuthToken string `yaml:"auth_token"`
	SiteID    string `yaml:"site_id"`
	Endpoint  string `yaml:"endpoint"`
}

// LoadCredentials reads and validates the YAML credential file.
func LoadCredentials(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	if creds.AuthToken == "" {
		return Credentials{}, fmt.Errorf("credentials file %s has no auth_token", path)
	}
	if creds.SiteID == "" {
		creds.SiteID = "0" // eBay US
	}
	if creds.Endpoint == "" {
		creds.Endpoint = defaultEndpoint
	}
	return creds, nil
}

// Item is one listing submission.
type Item struct {
	Title           string
	DescriptionHTML string
	CategoryID      string
	SKU             string
	Specifics       map[string]string
}

// Publisher submits a listing. Implementations log the outcome themselves and
// return an error only when the submission could not even be attempted.
type Publisher interface {
	Publish(ctx context.Context, item Item) error
}

// Trading is the eBay Trading API publisher.
type Trading struct {
	creds      Credentials
	httpClient *http.Client
}

func NewTrading(creds Credentials) *Trading {
	return &Trading{
		creds:      creds,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type nameValue struct {
	Name  string `xml:"Name"`
	Value string `xml:"Value"`
}

type addItemRequest struct {
	XMLName              xml.Name `xml:"urn:ebay:apis:eBLBaseComponents AddItemRequest"`
	RequesterCredentials struct {
		EBayAuthToken string `xml:"eBayAuthToken"`
	} `xml:"RequesterCredentials"`
	Item tradingItem `xml:"Item"`
}

type tradingItem struct {
	Title           string `xml:"Title"`
	Description     string `xml:"Description"`
	PrimaryCategory struct {
		CategoryID string `xml:"CategoryID"`
	} `xml:"PrimaryCategory"`
	StartPrice             string `xml:"StartPrice"`
	ConditionID            string `xml:"ConditionID"`
	CategoryMappingAllowed string `xml:"CategoryMappingAllowed"`
	Country                string `xml:"Country"`
	Currency               string `xml:"Currency"`
	DispatchTimeMax        string `xml:"DispatchTimeMax"`
	ListingDuration        string `xml:"ListingDuration"`
	ListingType            string `xml:"ListingType"`
	PaymentMethods         string `xml:"PaymentMethods"`
	PayPalEmailAddress     string `xml:"PayPalEmailAddress"`
	PictureDetails         struct {
		PictureURL []string `xml:"PictureURL"`
	} `xml:"PictureDetails"`
	PostalCode   string `xml:"PostalCode"`
	Quantity     string `xml:"Quantity"`
	ReturnPolicy struct {
		ReturnsAcceptedOption    string `xml:"ReturnsAcceptedOption"`
		RefundOption             string `xml:"RefundOption"`
		ReturnsWithinOption      string `xml:"ReturnsWithinOption"`
		ShippingCostPaidByOption string `xml:"ShippingCostPaidByOption"`
	} `xml:"ReturnPolicy"`
	ShippingDetails struct {
		ShippingType           string `xml:"ShippingType"`
		ShippingServiceOptions struct {
			ShippingServicePriority string `xml:"ShippingServicePriority"`
			ShippingService         string `xml:"ShippingService"`
			ShippingServiceCost     string `xml:"ShippingServiceCost"`
		} `xml:"ShippingServiceOptions"`
	} `xml:"ShippingDetails"`
	Site          string `xml:"Site"`
	SKU           string `xml:"SKU"`
	ItemSpecifics struct {
		NameValueList []nameValue `xml:"NameValueList"`
	} `xml:"ItemSpecifics"`
}

type addItemResponse struct {
	XMLName xml.Name `xml:"AddItemResponse"`
	Ack     string   `xml:"Ack"`
	ItemID  string   `xml:"ItemID"`
	Errors  []struct {
		ShortMessage string `xml:"ShortMessage"`
		LongMessage  string `xml:"LongMessage"`
		ErrorCode    string `xml:"ErrorCode"`
	} `xml:"Errors"`
}

// Publish submits an AddItem call. On a Success acknowledgement the item is
// logged as listed; any other acknowledgement or transport error is logged
// and swallowed. Callers learn the precise outcome only from logs.
func (t *Trading) Publish(ctx context.Context, item Item) error {
	req := addItemRequest{}
	req.RequesterCredentials.EBayAuthToken = t.creds.AuthToken
	req.Item = t.buildItem(item)

	body, err := xml.Marshal(req)
	if err != nil {
		slog.Error("Failed to build AddItem request", "sku", item.SKU, "error", err)
		return nil
	}
	payload := append([]byte(xml.Header), body...)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", t.creds.Endpoint, bytes.NewReader(payload))
	if err != nil {
		slog.Error("Failed to create AddItem request", "sku", item.SKU, "error", err)
		return nil
	}
	httpReq.Header.Set("Content-Type", "text/xml")
	httpReq.Header.Set("X-EBAY-API-COMPATIBILITY-LEVEL", compatibilityLevel)
	httpReq.Header.Set("X-EBAY-API-CALL-NAME", "AddItem")
	httpReq.Header.Set("X-EBAY-API-SITEID", t.creds.SiteID)
	httpReq.Header.Set("X-EBAY-API-DEV-NAME", t.creds.DevID)
	httpReq.Header.Set("X-EBAY-API-APP-NAME", t.creds.AppID)
	httpReq.Header.Set("X-EBAY-API-CERT-NAME", t.creds.CertID)

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		slog.Error("Failed to call eBay Trading API", "sku", item.SKU, "error", err)
		return nil
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("Failed to read eBay response", "sku", item.SKU, "error", err)
		return nil
	}

	var ack addItemResponse
	if err := xml.Unmarshal(respBody, &ack); err != nil {
		slog.Error("Failed to parse eBay response", "sku", item.SKU, "status", resp.StatusCode, "error", err)
		return nil
	}

	if ack.Ack == "Success" {
		slog.Info("Successfully listed item on eBay", "sku", item.SKU, "item_id", ack.ItemID)
		return nil
	}

	detail := ""
	if len(ack.Errors) > 0 {
		detail = ack.Errors[0].LongMessage
	}
	slog.Error("Failed to list item on eBay", "sku", item.SKU, "ack", ack.Ack, "detail", detail)
	return nil
}

func (t *Trading) buildItem(item Item) tradingItem {
	ti := tradingItem{
		Title:                  item.Title,
		Description:            item.DescriptionHTML,
		StartPrice:             startPrice,
		ConditionID:            conditionID,
		CategoryMappingAllowed: "true",
		Country:                country,
		Currency:               currency,
		DispatchTimeMax:        dispatchTimeMax,
		ListingDuration:        listingDuration,
		ListingType:            listingType,
		PaymentMethods:         paymentMethod,
		PayPalEmailAddress:     paypalEmail,
		PostalCode:             postalCode,
		Quantity:               quantity,
		Site:                   "US",
		SKU:                    item.SKU,
	}
	ti.PrimaryCategory.CategoryID = item.CategoryID
	ti.PictureDetails.PictureURL = []string{pictureURL}
	ti.ReturnPolicy.ReturnsAcceptedOption = "ReturnsAccepted"
	ti.ReturnPolicy.RefundOption = "MoneyBack"
	ti.ReturnPolicy.ReturnsWithinOption = "Days_30"
	ti.ReturnPolicy.ShippingCostPaidByOption = "Buyer"
	ti.ShippingDetails.ShippingType = "Flat"
	ti.ShippingDetails.ShippingServiceOptions.ShippingServicePriority = "1"
	ti.ShippingDetails.ShippingServiceOptions.ShippingService = shippingService
	ti.ShippingDetails.ShippingServiceOptions.ShippingServiceCost = shippingCost

	ti.ItemSpecifics.NameValueList = []nameValue{
		{Name: "Brand", Value: item.Specifics["brand"]},
		{Name: "Style", Value: item.Specifics["style"]},
		{Name: "Metal", Value: item.Specifics["metal"]},
	}
	return ti
}
