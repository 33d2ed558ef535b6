package catalog

var builtinAgents = []Agent{
	{
		ID:          "default",
		Name:        "Default General Purpose",
		Description: "Meta-queries about active agents and general, simple questions",
		Prefilled: Option{
			Title: "Default Agent 🔄",
			Icon:  "◎",
			Examples: []Example{
				{Text: "Who is Elon Musk?", Agent: "default"},
				{Text: "What Morpheus agents are currently active?", Agent: "default"},
			},
		},
	},
	{
		ID:          "imagen",
		Name:        "Image Generator",
		Description: "Image generation tasks",
		Prefilled: Option{
			Title: "Generate Images 🎨",
			Icon:  "✦",
			Examples: []Example{
				{Text: "Generate an image of Donald Trump", Agent: "imagen"},
				{Text: "Create a cyberpunk style portrait of Elon Musk", Agent: "imagen"},
			},
		},
	},
	{
		ID:          "rag",
		Name:        "Document Assistant",
		Description: "Answers questions about an uploaded document",
		Prefilled: Option{
			Title: "Document Analysis 📄",
			Icon:  "▤",
			Examples: []Example{
				{Text: "Summarize the uploaded document", Agent: "rag"},
				{Text: "What are the key points in this uploaded document?", Agent: "rag"},
			},
		},
	},
	{
		ID:          "crypto data",
		Name:        "Crypto Data Fetcher",
		Description: "Real-time price, market cap and fully diluted valuation",
		Prefilled: Option{
			Title: "Crypto Market Data 📊",
			Icon:  "▲",
			Examples: []Example{
				{Text: "What's the current price of ETH?", Agent: "crypto"},
				{Text: "Show me BTC's market cap", Agent: "crypto"},
				{Text: "What's the FDV of USDC?", Agent: "crypto"},
			},
		},
	},
	{
		ID:          "token swap",
		Name:        "Token Swap",
		Description: "Swapping one cryptocurrency for another",
		Prefilled: Option{
			Title: "Token Swaps 💱",
			Icon:  "⇄",
			Examples: []Example{
				{Text: "Swap ETH for USDC", Agent: "swap"},
				{Text: "Exchange my BTC for ETH", Agent: "swap"},
			},
		},
	},
	{
		ID:          "tweet sizzler",
		Name:        "Tweet / X-Post Generator",
		Description: "Generates engaging tweets",
		Prefilled: Option{
			Title: "Tweet Generator 🔥",
			Icon:  "♨",
			Examples: []Example{
				{Text: "Write a viral tweet about Web3", Agent: "tweet"},
				{Text: "Create a spicy crypto market tweet about Gary Gensler", Agent: "tweet"},
			},
		},
	},
	{
		ID:          "dca",
		Name:        "DCA Strategy Manager",
		Description: "Dollar-cost averaging strategies",
		Prefilled: Option{
			Title: "DCA Strategy Planning 💰",
			Icon:  "$",
			Examples: []Example{
				{Text: "Set up a weekly DCA plan for ETH", Agent: "dca"},
				{Text: "Help me create a monthly BTC buying strategy", Agent: "dca"},
			},
		},
	},
	{
		ID:          "base",
		Name:        "Base Transaction Manager",
		Description: "Transactions on the Base network",
		Prefilled: Option{
			Title: "Base Transactions 🔄",
			Icon:  "➤",
			Examples: []Example{
				{Text: "Send USDC on Base", Agent: "base"},
				{Text: "Swap USDC for ETH on Base", Agent: "base"},
			},
		},
	},
	{
		ID:          "mor claims",
		Name:        "MOR Claims",
		Description: "Claiming MOR rewards",
		Prefilled: Option{
			Title: "MOR Claims 🎁",
			Icon:  "◆",
			Examples: []Example{
				{Text: "Claim my MOR rewards", Agent: "claims"},
				{Text: "Help me claim my pending MOR tokens", Agent: "claims"},
			},
		},
	},
	{
		ID:          "mor rewards",
		Name:        "MOR Rewards Tracker",
		Description: "Accrued MOR reward balances",
		Prefilled: Option{
			Title: "MOR Rewards Tracking 🏆",
			Icon:  "★",
			Examples: []Example{
				{Text: "Show my MOR rewards balance", Agent: "rewards"},
				{Text: "Calculate my pending MOR rewards", Agent: "rewards"},
			},
		},
	},
	{
		ID:          "realtime search",
		Name:        "Real-Time Search",
		Description: "Web search and current events",
		Prefilled: Option{
			Title: "Real-Time Search 🔍",
			Icon:  "⌕",
			Examples: []Example{
				{Text: "Search the web for latest news about Ethereum", Agent: "realtime"},
				{Text: "What did Donald Trump say about Bitcoin?", Agent: "realtime"},
			},
		},
	},
	{
		ID:          "crypto news",
		Name:        "Crypto News Analyst",
		Description: "Cryptocurrency news and potential price impact",
		Prefilled: Option{
			Title: "Crypto News Analysis 📰",
			Icon:  "▦",
			Examples: []Example{
				{Text: "Analyze recent crypto market news", Agent: "news"},
				{Text: "What's the latest news impact on BTC?", Agent: "news"},
			},
		},
	},
	{
		ID:          "hotel finder",
		Name:        "Hotel Finder",
		Description: "Hotels, accommodations and lodging",
	},
}
