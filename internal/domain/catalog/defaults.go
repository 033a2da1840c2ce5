package catalog

import (
	"regexp"

	"github.com/FACorreiaa/statement-import/internal/domain/transaction"
)

// sharedCardRules cover card-network noise common to most European exports.
var sharedCardRules = []MerchantRule{
	{regexp.MustCompile(`(?i)^(?:COMPRA|PURCHASE|POS)\s+(.+)`), transaction.SubtypeCardPresent},
	{regexp.MustCompile(`(?i)^(?:DD|DOM|DIRECT DEBIT)\s+(.+)`), transaction.SubtypeDirectDebit},
	{regexp.MustCompile(`(?i)^(?:TRF|TRANSF|TRANSFER)\w*\s+(.+)`), transaction.SubtypeTransfer},
	{regexp.MustCompile(`(?i)^(?:LEV|ATM|WITHDRAWAL)\w*\s*(.*)`), transaction.SubtypeATM},
}

// Default returns the built-in format catalog. The registration order matters:
// more specific formats come first so score ties resolve toward them.
func Default() *Registry {
	return MustNewRegistry(
		// Portugal: Caixa Geral de Depósitos account statement. Semicolon,
		// two metadata lines above the header, separate debit/credit columns,
		// Latin-1 on older exports.
		&Descriptor{
			Key:          "pt-cgd",
			Institution:  "Caixa Geral de Depósitos",
			Country:      "PT",
			Currency:     "EUR",
			Encoding:     "windows-1252",
			Delimiter:    ';',
			HasHeader:    true,
			SkipRows:     2,
			DateFormat:   "DD-MM-YYYY",
			DecimalComma: true,
			Columns: []ColumnRef{
				{Field: FieldDate, Name: "Data mov.", Index: 0},
				{Field: FieldDescription, Name: "Descrição", Index: 2},
				{Field: FieldDebit, Name: "Débito", Index: 3},
				{Field: FieldCredit, Name: "Crédito", Index: 4},
			},
			SampleHeader: "Data mov.;Data valor;Descrição;Débito;Crédito;Saldo contabilístico;Saldo disponível;Categoria",
			Identifiers:  []string{"Caixa Geral", "caixadirecta", "comprovativo CGD"},
			MerchantRules: append([]MerchantRule{
				{regexp.MustCompile(`(?i)^COMPRA\s+\d*\s*(.+?)\s*$`), transaction.SubtypeCardPresent},
				{regexp.MustCompile(`(?i)^PAG\.?\s*SERV\w*\s+(.+)`), transaction.SubtypeDirectDebit},
				{regexp.MustCompile(`(?i)^MB\s?WAY\s+(.+)`), transaction.SubtypeTransfer},
				{regexp.MustCompile(`(?i)^LEV\.?\s*MB\s*(.*)`), transaction.SubtypeATM},
			}, sharedCardRules...),
			Convention: SeparateDebitCredit,
		},

		// Portugal: Millennium BCP. Semicolon, debit/credit columns.
		&Descriptor{
			Key:          "pt-millennium",
			Institution:  "Millennium BCP",
			Country:      "PT",
			Currency:     "EUR",
			Encoding:     "utf-8",
			Delimiter:    ';',
			HasHeader:    true,
			DateFormat:   "DD-MM-YYYY",
			DecimalComma: true,
			Columns: []ColumnRef{
				{Field: FieldDate, Name: "Data lançamento", Index: 0},
				{Field: FieldDescription, Name: "Descrição", Index: 2},
				{Field: FieldDebit, Name: "Débito", Index: 3},
				{Field: FieldCredit, Name: "Crédito", Index: 4},
			},
			SampleHeader:  "Data lançamento;Data valor;Descrição;Débito;Crédito;Saldo",
			Identifiers:   []string{"Millennium", "BCP"},
			MerchantRules: sharedCardRules,
			Convention:    SeparateDebitCredit,
		},

		// Netherlands: ING. Semicolon, unsigned amount plus Af/Bij flag,
		// compact ISO dates.
		&Descriptor{
			Key:          "nl-ing",
			Institution:  "ING",
			Country:      "NL",
			Currency:     "EUR",
			Encoding:     "utf-8",
			Delimiter:    ';',
			HasHeader:    true,
			DateFormat:   "YYYYMMDD",
			DecimalComma: true,
			Columns: []ColumnRef{
				{Field: FieldDate, Name: "Datum", Index: 0},
				{Field: FieldDescription, Name: "Naam / Omschrijving", Index: 1},
				{Field: FieldTypeFlag, Name: "Af Bij", Index: 5},
				{Field: FieldAmount, Name: "Bedrag (EUR)", Index: 6},
			},
			SampleHeader: `"Datum";"Naam / Omschrijving";"Rekening";"Tegenrekening";"Code";"Af Bij";"Bedrag (EUR)";"MutatieSoort";"Mededelingen"`,
			Identifiers:  []string{"Af Bij", "MutatieSoort", "Tegenrekening"},
			MerchantRules: []MerchantRule{
				{regexp.MustCompile(`(?i)^Betaalautomaat\s+(.+)`), transaction.SubtypeCardPresent},
				{regexp.MustCompile(`(?i)^Incasso\s+(.+)`), transaction.SubtypeDirectDebit},
				{regexp.MustCompile(`(?i)^Overschrijving\s+(.+)`), transaction.SubtypeTransfer},
				{regexp.MustCompile(`(?i)^Geldautomaat\s*(.*)`), transaction.SubtypeATM},
			},
			Convention: SingleUnsignedWithTypeFlag,
			DebitFlags: []string{"Af"},
		},

		// Germany: N26. Comma, ISO dates, signed amount, dot decimals.
		&Descriptor{
			Key:         "de-n26",
			Institution: "N26",
			Country:     "DE",
			Currency:    "EUR",
			Encoding:    "utf-8",
			Delimiter:   ',',
			HasHeader:   true,
			DateFormat:  "YYYY-MM-DD",
			Columns: []ColumnRef{
				{Field: FieldDate, Name: "Date", Index: 0},
				{Field: FieldDescription, Name: "Payee", Index: 1},
				{Field: FieldAmount, Name: "Amount (EUR)", Index: 5},
			},
			SampleHeader: `"Date","Payee","Account number","Transaction type","Payment reference","Amount (EUR)","Amount (Foreign Currency)","Type Foreign Currency","Exchange Rate"`,
			Identifiers:  []string{"N26", "Payment reference", "Amount (Foreign Currency)"},
			MerchantRules: []MerchantRule{
				{regexp.MustCompile(`(?i)^MasterCard Payment\s*(.*)`), transaction.SubtypeCardPresent},
				{regexp.MustCompile(`(?i)^Direct Debit\s*(.*)`), transaction.SubtypeDirectDebit},
				{regexp.MustCompile(`(?i)^(?:Outgoing|Incoming) Transfer\s*(.*)`), transaction.SubtypeTransfer},
			},
			Convention: SingleSigned,
		},

		// United Kingdom: Revolut. Comma, ISO datetimes, signed amount and a
		// currency column.
		&Descriptor{
			Key:         "uk-revolut",
			Institution: "Revolut",
			Country:     "GB",
			Currency:    "GBP",
			Encoding:    "utf-8",
			Delimiter:   ',',
			HasHeader:   true,
			DateFormat:  "YYYY-MM-DD HH:mm:ss",
			Columns: []ColumnRef{
				{Field: FieldDate, Name: "Completed Date", Index: 3},
				{Field: FieldDescription, Name: "Description", Index: 4},
				{Field: FieldAmount, Name: "Amount", Index: 5},
				{Field: FieldCurrency, Name: "Currency", Index: 7},
			},
			SampleHeader: "Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance",
			Identifiers:  []string{"Revolut", "Started Date", "Completed Date"},
			MerchantRules: []MerchantRule{
				{regexp.MustCompile(`(?i)^Payment from\s+(.+)`), transaction.SubtypeTransfer},
				{regexp.MustCompile(`(?i)^To\s+(.+)`), transaction.SubtypeTransfer},
				{regexp.MustCompile(`(?i)^ATM\s*(.*)`), transaction.SubtypeATM},
			},
			Convention: SingleSigned,
		},

		// United Kingdom: Monzo. Comma, signed amount.
		&Descriptor{
			Key:         "uk-monzo",
			Institution: "Monzo",
			Country:     "GB",
			Currency:    "GBP",
			Encoding:    "utf-8",
			Delimiter:   ',',
			HasHeader:   true,
			DateFormat:  "DD/MM/YYYY",
			Columns: []ColumnRef{
				{Field: FieldDate, Name: "Date", Index: 1},
				{Field: FieldDescription, Name: "Name", Index: 4},
				{Field: FieldAmount, Name: "Amount", Index: 7},
				{Field: FieldCurrency, Name: "Currency", Index: 8},
			},
			SampleHeader: "Transaction ID,Date,Time,Type,Name,Emoji,Category,Amount,Currency,Local amount,Local currency,Notes and #tags,Address,Receipt,Description,Category split",
			Identifiers:  []string{"Monzo", "Transaction ID", "Notes and #tags"},
			MerchantRules: []MerchantRule{
				{regexp.MustCompile(`(?i)^Card payment\s*(?:to\s+)?(.*)`), transaction.SubtypeCardPresent},
				{regexp.MustCompile(`(?i)^Direct Debit\s*(?:to\s+)?(.*)`), transaction.SubtypeDirectDebit},
			},
			Convention: SingleSigned,
		},

		// United States: Chase checking. Comma, MM/DD/YYYY, signed amount.
		&Descriptor{
			Key:         "us-chase",
			Institution: "Chase",
			Country:     "US",
			Currency:    "USD",
			Encoding:    "utf-8",
			Delimiter:   ',',
			HasHeader:   true,
			DateFormat:  "MM/DD/YYYY",
			Columns: []ColumnRef{
				{Field: FieldDate, Name: "Posting Date", Index: 1},
				{Field: FieldDescription, Name: "Description", Index: 2},
				{Field: FieldAmount, Name: "Amount", Index: 3},
			},
			SampleHeader: "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #",
			Identifiers:  []string{"Chase", "Posting Date", "Check or Slip"},
			MerchantRules: []MerchantRule{
				{regexp.MustCompile(`(?i)^(?:DEBIT CARD PURCHASE|POS DEBIT)\s*-?\s*(.*)`), transaction.SubtypeCardPresent},
				{regexp.MustCompile(`(?i)^ACH\s+(?:DEBIT|CREDIT)\s*(.*)`), transaction.SubtypeDirectDebit},
				{regexp.MustCompile(`(?i)^ONLINE TRANSFER\s*(.*)`), transaction.SubtypeTransfer},
				{regexp.MustCompile(`(?i)^ATM WITHDRAWAL\s*(.*)`), transaction.SubtypeATM},
			},
			Convention: SingleSigned,
		},

		// United States: TD Bank. Comma, separate debit/credit columns.
		&Descriptor{
			Key:         "us-tdbank",
			Institution: "TD Bank",
			Country:     "US",
			Currency:    "USD",
			Encoding:    "utf-8",
			Delimiter:   ',',
			HasHeader:   true,
			DateFormat:  "MM/DD/YYYY",
			Columns: []ColumnRef{
				{Field: FieldDate, Name: "Date", Index: 0},
				{Field: FieldDescription, Name: "Description", Index: 2},
				{Field: FieldDebit, Name: "Debit", Index: 3},
				{Field: FieldCredit, Name: "Credit", Index: 4},
			},
			SampleHeader: "Date,Transaction Type,Description,Debit,Credit,Balance",
			Identifiers:  []string{"TD Bank", "Transaction Type"},
			MerchantRules: []MerchantRule{
				{regexp.MustCompile(`(?i)^DEBIT POS\s*,?\s*(.*)`), transaction.SubtypeCardPresent},
				{regexp.MustCompile(`(?i)^ELECTRONIC PMT\s*-?\s*(.*)`), transaction.SubtypeDirectDebit},
				{regexp.MustCompile(`(?i)^TRANSFER\s*(.*)`), transaction.SubtypeTransfer},
			},
			Convention: SeparateDebitCredit,
		},

		// Australia: ANZ-style EFTPOS export. Headerless, pipe-delimited.
		&Descriptor{
			Key:         "au-anz",
			Institution: "ANZ",
			Country:     "AU",
			Currency:    "AUD",
			Encoding:    "utf-8",
			Delimiter:   '|',
			HasHeader:   false,
			DateFormat:  "DD/MM/YYYY",
			Columns: []ColumnRef{
				{Field: FieldDate, Index: 0},
				{Field: FieldAmount, Index: 1},
				{Field: FieldDescription, Index: 2},
			},
			Identifiers: []string{"ANZ", "EFTPOS"},
			MerchantRules: []MerchantRule{
				{regexp.MustCompile(`(?i)^EFTPOS\s+(?:\d+\s+)?(.+)`), transaction.SubtypeCardPresent},
				{regexp.MustCompile(`(?i)^DIRECT DEBIT\s+(.+)`), transaction.SubtypeDirectDebit},
				{regexp.MustCompile(`(?i)^ANZ ATM\s*(.*)`), transaction.SubtypeATM},
			},
			Convention: SingleSigned,
		},

		// Brazil: Itaú. Semicolon, DD/MM/YYYY, comma decimals, signed amount.
		&Descriptor{
			Key:          "br-itau",
			Institution:  "Itaú",
			Country:      "BR",
			Currency:     "BRL",
			Encoding:     "windows-1252",
			Delimiter:    ';',
			HasHeader:    true,
			DateFormat:   "DD/MM/YYYY",
			DecimalComma: true,
			Columns: []ColumnRef{
				{Field: FieldDate, Name: "data", Index: 0},
				{Field: FieldDescription, Name: "lançamento", Index: 1},
				{Field: FieldAmount, Name: "valor", Index: 2},
			},
			SampleHeader: "data;lançamento;valor",
			Identifiers:  []string{"Itaú", "Itau", "lançamento"},
			MerchantRules: []MerchantRule{
				{regexp.MustCompile(`(?i)^COMPRA\s+(.+)`), transaction.SubtypeCardPresent},
				{regexp.MustCompile(`(?i)^DEB\s*AUT\w*\s+(.+)`), transaction.SubtypeDirectDebit},
				{regexp.MustCompile(`(?i)^(?:TED|PIX)\s+(.+)`), transaction.SubtypeTransfer},
			},
			Convention: SingleSigned,
		},
	)
}
