// Package bot – templates.go holds the static Swedish board templates and
// the fixed chat messages (introduction, help, usage hints, apology).
package bot

// Board templates returned by the slash-command registry.
const (
	templateAgenda = `# Dagordning styrelsemöte [DATUM]

1. Mötets öppnande
2. Val av mötesordförande
3. Val av mötessekreterare
4. Val av justerare
5. Godkännande av dagordning
6. Föregående protokoll
7. Rapporter
   a) Ordförande
   b) Vice ordförande
   c) Kassör
   d) Sekreterare
   e) Utskottsansvariga
8. Beslutsärenden
9. Diskussionsärenden
10. Övriga frågor
11. Nästa möte
12. Mötets avslutande`

	templateMinutes = `# Protokoll styrelsemöte [DATUM]

Närvarande: [NAMN], [NAMN], [NAMN]
Frånvarande: [NAMN]

§1. Mötets öppnande
Ordförande förklarade mötet öppnat.

§2. Val av mötesordförande
[NAMN] valdes till mötesordförande.

§3. Val av mötessekreterare
[NAMN] valdes till mötessekreterare.

§4. Val av justerare
[NAMN] valdes till justerare.

§5. Godkännande av dagordning
Dagordningen godkändes.

[Fortsätt med resterande punkter...]`

	templateBudget = `# Budgetmall

## Intäkter
- Medlemsavgifter: [BELOPP] kr
- Sponsring: [BELOPP] kr
- Evenemang: [BELOPP] kr
- Övrigt: [BELOPP] kr
**Totala intäkter: [SUMMA] kr**

## Utgifter
- Evenemang: [BELOPP] kr
- Marknadsföring: [BELOPP] kr
- Administration: [BELOPP] kr
- Övrigt: [BELOPP] kr
**Totala utgifter: [SUMMA] kr**

**Resultat: [SUMMA] kr**`

	templateChecklist = `# Checklista för evenemang

## Före evenemang
- [ ] Fastställ datum och tid
- [ ] Boka lokal
- [ ] Skapa budget
- [ ] Marknadsför på sociala medier
- [ ] Skapa anmälningsformulär
- [ ] Kontakta eventuella samarbetspartners
- [ ] Planera aktiviteter

## Under evenemang
- [ ] Registrera deltagare
- [ ] Dokumentera med foton
- [ ] Samla in feedback

## Efter evenemang
- [ ] Tacka deltagare och samarbetspartners
- [ ] Sammanställ feedback
- [ ] Ekonomisk uppföljning
- [ ] Utvärderingsmöte
- [ ] Dokumentera lärdomar för framtida evenemang`

	helpText = `**Tillgängliga kommandon:**
- /dagordning - Genererar en mall för dagordning
- /protokoll - Genererar en mall för mötesprotokoll
- /budget - Genererar en budgetmall
- /checklista - Genererar en checklista för evenemang
- /visa-moten - Visar kommande möten
- /hjälp - Visar denna hjälptext

**Möteshantering:**
- /skapa-möte [titel] [datum YYYY-MM-DD] [tid HH:MM] [plats] - Skapar ett nytt möte
- /visa-möten - Visar alla kommande möten
- /påminn-möte [mötes-ID] - Skickar en påminnelse om ett möte nu
- /ta-bort-möte [mötes-ID] - Tar bort ett schemalagt möte

**Andra funktioner:**
- Sök efter [sökord] - Söker i Google Drive efter dokument
- Sammanfatta dokument [URL eller namn] - Sammanfattar ett dokument
- Skapa dokument [titel] - [instruktioner] - Skapar ett nytt dokument med AI

Du kan också ställa frågor om styrelsearbete, planering, eller be om hjälp med formuleringar för kommunikation.`
)

// Introduction messages sent the first time the bot answers in a channel.
const (
	introPersonalized = `Hej %s! Jag är er AI-assistent för styrelsearbetet. Jag kan hjälpa till med att generera mallar, svara på frågor om styrelsearbete, och assistera med planering.

Jag kan också:
- Söka i Google Drive: "sök efter [sökord]"
- Sammanfatta dokument: "sammanfatta dokument [URL eller namn]"
- Skapa nya dokument: "skapa dokument [titel] - [instruktioner]"

Skriv ` + "`/hjälp`" + ` för att se alla tillgängliga kommandon.`

	introGeneric = "Hej! Jag är er AI-assistent för styrelsearbetet. Jag kan hjälpa till med att generera mallar, svara på frågor om styrelsearbete, och assistera med planering. Skriv `/hjälp` för att se tillgängliga kommandon."
)

// Usage hints and recoverable-failure messages.
const (
	msgApology = "Jag kunde tyvärr inte generera ett svar just nu. Om det gäller en brådskande styrelsefråga, vänligen kontakta ordförande eller sekreterare direkt."

	msgSearchFailed    = "Ett fel uppstod vid sökning i Google Drive. Kontrollera loggarna för mer information."
	msgSummarizeUsage  = `Användning: "sammanfatta dokument [dokument-ID eller URL eller namn]"`
	msgSummarizeFailed = "Ett fel uppstod vid sammanfattning av dokumentet. Kontrollera loggarna för mer information."

	msgCreateDocUsage = `För att skapa ett dokument, ange en titel och instruktioner. Till exempel: "skapa dokument Projektplan för vårbalen - Skapa en detaljerad projektplan för vårbalen med tidslinjer, budget och ansvarsområden"`

	msgCreateMeetingUsage = "För att skapa ett möte, ange titel, datum, tid och plats. Exempel: `/skapa-möte Styrelsemöte 2023-06-15 18:00 Konferensrummet`"
	msgInvalidDate        = "Kunde inte hitta ett giltigt datum i formatet YYYY-MM-DD. Exempel: 2023-06-15"
	msgRemindUsage        = "Ange ett mötes-ID för att skicka en påminnelse. Exempel: `/påminn-möte 1621234567890`"
	msgDeleteUsage        = "Ange ett mötes-ID för att ta bort ett möte. Exempel: `/ta-bort-möte 1621234567890`"

	msgCreateCalendarUsage = "## ❌ Felaktigt format\n\nAnvänd: `/skapa-kalender Kalendernamn email@example.com`"
	msgInvalidEmail        = "## ❌ Ogiltig e-postadress\n\nVänligen ange en giltig e-postadress."

	msgGoogleNotConfigured = "Google-integrationen är inte konfigurerad. Ange GOOGLE_APPLICATION_CREDENTIALS för att aktivera dokument- och kalenderfunktioner."
)

// documentPrompt is the instruction sent to the generative backend when
// creating a new document.
const documentPrompt = `Skapa ett professionellt dokument med titeln "%s" som ska fungera i Google Docs.

Instruktioner: %s

Dokumentet ska vara välstrukturerat med rubriker, underrubriker och punktlistor där det är lämpligt.
Använd ett formellt och professionellt språk som passar för en elevkårsstyrelse.
Inkludera relevanta detaljer och exempel.

VIKTIGT: Formatera texten med Markdown-syntax som jag kommer att konvertera till Google Docs-format:
- Använd # för huvudrubriker
- Använd ## för underrubriker
- Använd ### för mindre rubriker
- Använd - eller * för punktlistor
- Använd 1. 2. 3. för numrerade listor
- Använd > för citat eller viktiga notiser

Tänk på att dokumentet ska vara enkelt att navigera och använda för styrelsemedlemmar.`

// summaryPrompt is the instruction for summarizing a fetched document.
const summaryPrompt = `Sammanfatta följande dokument på svenska. Ge en koncis men informativ sammanfattning:

Dokumenttitel: %s

%s`
