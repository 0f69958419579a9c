package intelligence

// defaultKnowledge returns the built-in knowledge base. Declaration order is
// the classifier's tie-break order.
func defaultKnowledge() []KnowledgeEntry {
	return []KnowledgeEntry{
		{
			Type: DocumentTypeBoardResolution,
			Keywords: []string{
				"resolved that", "board of directors", "meeting of the board", "chairperson",
				"quorum", "agenda item", "authorization to sign", "issue of shares",
				"appointment of auditors", "company seal", "companies act",
			},
			RedFlags: []RedFlag{
				{Name: "approved without quorum", Pattern: `approved\s+without\s+(?:a\s+)?quorum`},
				{Name: "quorum not achieved", Pattern: `quorum\W{0,3}(?:was\s+|is\s+)?not\s+(?:achieved|met|present)`},
				{Name: "resolution passed without meeting", Pattern: `resolution\s+passed\s+without\s+(?:a\s+)?meeting`},
				{Name: "backdated approval", Pattern: `\bback-?dated\b(?:\s+approval)?`},
				{Name: "director absent but recorded present", Pattern: `director\s+absent\s+but\s+recorded\s+(?:as\s+)?present`},
				{Name: "authority delegated without oversight", Pattern: `authority\s+delegated\s+without\s+(?:any\s+)?oversight`},
			},
		},
		{
			Type: DocumentTypeMoU,
			Keywords: []string{
				"mutual understanding", "partnership", "collaboration", "joint initiative",
				"objective", "scope of work", "responsibilities of parties", "obligations",
				"cost-sharing", "financial contribution", "non-binding",
			},
			RedFlags: []RedFlag{
				{Name: "mou is legally binding", Pattern: `this\s+mou\s+is\s+legally\s+binding`},
				{Name: "irrevocable agreement", Pattern: `irrevocably\s+agree`},
				{Name: "unconditional obligations", Pattern: `unconditional\s+obligations?`},
				{Name: "penalties imposed", Pattern: `penalties\s+shall\s+be\s+imposed`},
				{Name: "exclusive rights", Pattern: `exclusive\s+rights\s+(?:are\s+)?granted\s+to`},
				{Name: "legal action on non-compliance", Pattern: `failure\s+to\s+comply\s+will\s+result\s+in\s+legal\s+action`},
			},
		},
		{
			Type: DocumentTypeAnnualReport,
			Keywords: []string{
				"revenue", "gross profit", "ebitda", "net income", "shareholder equity",
				"qualified opinion", "material misstatement", "auditor’s report",
				"going concern", "risk management", "csr initiatives",
			},
			RedFlags: []RedFlag{
				{Name: "going concern uncertainty", Pattern: `going\s+concern\s+is\s+uncertain`},
				{Name: "material weaknesses", Pattern: `material\s+weaknesses\s+(?:were\s+)?found`},
				{Name: "fraud detected", Pattern: `significant\s+fraud\s+(?:was\s+)?detected`},
				{Name: "insufficient audit evidence", Pattern: `unable\s+to\s+obtain\s+sufficient\s+(?:appropriate\s+)?audit\s+evidence`},
				{Name: "pending investigation", Pattern: `pending\s+investigations?`},
				{Name: "financial restatement", Pattern: `restatement\s+of\s+(?:the\s+)?financial\s+statements`},
			},
		},
		{
			Type: DocumentTypeEmployment,
			Keywords: []string{
				"probation period", "working hours", "salary", "benefits", "non-compete",
				"non-solicitation", "code of conduct", "leave policy", "disciplinary action",
				"designation",
			},
			RedFlags: []RedFlag{
				{Name: "waiver of legal rights", Pattern: `employee\s+waives\s+all\s+(?:legal\s+)?rights`},
				{Name: "termination without notice", Pattern: `termination\s+without\s+(?:prior\s+)?notice`},
				{Name: "long non-compete", Pattern: `non-compete\s+(?:for|of)\s+more\s+than\s+(?:2|two)\s+years`},
				{Name: "no liability for injuries", Pattern: `company\s+is\s+not\s+responsible\s+for\s+(?:any\s+)?workplace\s+injur(?:y|ies)`},
				{Name: "salary withholding", Pattern: `salary\s+may\s+be\s+withheld`},
				{Name: "resignation penalty", Pattern: `pay\s+(?:a\s+)?penalty\s+(?:for|upon|on)\s+resignation`},
			},
		},
		{
			Type: DocumentTypeNDA,
			Keywords: []string{
				"confidential information", "proprietary data", "trade secrets",
				"recipient shall not disclose", "public domain", "return or destroy",
				"injunction relief", "survival clause",
			},
			RedFlags: []RedFlag{
				{Name: "perpetual nda", Pattern: `nda\s+lasts\s+forever`},
				{Name: "recipient assumes all liability", Pattern: `recipient\s+assumes\s+all\s+liability`},
				{Name: "no confidentiality exceptions", Pattern: `no\s+exceptions\s+to\s+(?:the\s+)?confidentiality`},
				{Name: "unlimited penalties", Pattern: `unlimited\s+penalties`},
				{Name: "ownership transfer", Pattern: `recipient\s+grants\s+ownership`},
				{Name: "affiliate disclosure", Pattern: `disclosure\s+(?:is\s+)?allowed\s+to\s+affiliates\s+without\s+consent`},
			},
		},
	}
}
