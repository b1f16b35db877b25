package fetcher

import "strings"

var symbolNames = map[string]string{
	"BTC":   "Bitcoin",
	"ETH":   "Ethereum",
	"AVAX":  "Avalanche",
	"DOT":   "Polkadot",
	"LTC":   "Litecoin",
	"LINK":  "Chainlink",
	"DOGE":  "Dogecoin",
	"UNI":   "Uniswap",
	"SHIB":  "Shiba Inu",
	"TRX":   "TRON",
	"USDT":  "Tether",
	"USDC":  "USD Coin",
	"BNB":   "Binance Coin",
	"VET":   "VeChain",
	"XTZ":   "Tezos",
	"ALGO":  "Algorand",
	"FIL":   "Filecoin",
	"MATIC": "Polygon",
	"ICP":   "Internet Computer",
	"XLM":   "Stellar",
	"NEAR":  "NEAR Protocol",
	"ETC":   "Ethereum Classic",
	"FTM":   "Fantom",
	"CRO":   "Cronos",
	"RUB":   "Russian Ruble",
	"KZT":   "Kazakhstani Tenge",
	"USD":   "US Dollar",
	"EUR":   "Euro",
}

// SymbolName возвращает полное название актива по тикеру (без учёта регистра).
// Неизвестный тикер возвращается без изменений.
func SymbolName(symbol string) string {
	if name, ok := symbolNames[strings.ToUpper(symbol)]; ok {
		return name
	}
	return symbol
}
