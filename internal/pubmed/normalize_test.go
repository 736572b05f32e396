// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-digest/pkg/types"
)

const fullRecordXML = `<?xml version="1.0" ?>
<!DOCTYPE PubmedArticleSet PUBLIC "-//NLM//DTD PubMedArticle, 1st January 2024//EN" "https://dtd.nlm.nih.gov/ncbi/pubmed/out/pubmed_240101.dtd">
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation Status="MEDLINE" Owner="NLM">
      <PMID Version="1">38000001</PMID>
      <Article PubModel="Print-Electronic">
        <Journal>
          <JournalIssue CitedMedium="Internet">
            <Volume>12</Volume>
            <PubDate><Year>2024</Year><Month>07</Month><Day>15</Day></PubDate>
          </JournalIssue>
          <Title>Nature Methods</Title>
        </Journal>
        <ArticleTitle>Base editing of <i>PCSK9</i> in vivo.</ArticleTitle>
        <Abstract>
          <AbstractText Label="BACKGROUND">Base editors enable
            precise changes.</AbstractText>
          <AbstractText Label="RESULTS">Editing reached 60%.</AbstractText>
          <CopyrightInformation>© 2024 The Authors.</CopyrightInformation>
        </Abstract>
        <AuthorList CompleteYN="Y">
          <Author ValidYN="Y"><LastName>Doudna</LastName><ForeName>Jennifer A</ForeName><Initials>JA</Initials></Author>
          <Author ValidYN="Y"><LastName>Liu</LastName><ForeName>David R</ForeName></Author>
        </AuthorList>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
  <PubmedArticle>
    <MedlineCitation>
      <PMID Version="1">38000002</PMID>
      <Article>
        <ArticleTitle>Sparse record.</ArticleTitle>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
  <PubmedArticle>
    <PubmedData><ArticleIdList><ArticleId IdType="pubmed">99</ArticleId></ArticleIdList></PubmedData>
  </PubmedArticle>
</PubmedArticleSet>`

func TestDecodeAndNormalizeBatch(t *testing.T) {
	records, err := DecodeRecords(strings.NewReader(fullRecordXML))
	require.NoError(t, err)
	require.Len(t, records, 3)

	articles, failures := NormalizeAll(records)
	require.Len(t, articles, 2)
	require.Len(t, failures, 1)
	assert.Equal(t, 2, failures[0].Index)
	assert.ErrorIs(t, failures[0].Err, ErrNoCitation)

	assert.Equal(t, types.Article{
		ID:              "38000001",
		Title:           "Base editing of PCSK9 in vivo.",
		FirstAuthor:     "Doudna Jennifer A",
		Abstract:        "Base editors enable precise changes. Editing reached 60%.",
		PublicationDate: "2024-07-15",
	}, articles[0])

	assert.Equal(t, types.Article{ID: "38000002", Title: "Sparse record."}, articles[1])
}

func TestDecodeRecordsSyntaxErrorKeepsEarlierRecords(t *testing.T) {
	doc := `<PubmedArticleSet>
  <PubmedArticle><MedlineCitation><PMID>1</PMID></MedlineCitation></PubmedArticle>
  <PubmedArticle><MedlineCitation><PMID>2</PMID></Medline`
	records, err := DecodeRecords(strings.NewReader(doc))
	require.Error(t, err)
	require.Len(t, records, 1)

	a, err := Normalize(records[0])
	require.NoError(t, err)
	assert.Equal(t, "1", a.ID)
}

func TestNormalizeMissingContainers(t *testing.T) {
	pmid := func(s string) *text { v := text(s); return &v }

	tests := []struct {
		name string
		rec  RawRecord
		want types.Article
	}{
		{
			name: "no article container",
			rec:  RawRecord{Citation: &rawCitation{PMID: pmid("1")}},
			want: types.Article{ID: "1"},
		},
		{
			name: "empty author list",
			rec: RawRecord{Citation: &rawCitation{PMID: pmid("2"), Article: &rawArticle{
				AuthorList: &rawAuthorList{},
			}}},
			want: types.Article{ID: "2"},
		},
		{
			name: "journal without issue",
			rec: RawRecord{Citation: &rawCitation{PMID: pmid("3"), Article: &rawArticle{
				Journal: &rawJournal{},
			}}},
			want: types.Article{ID: "3"},
		},
		{
			name: "issue without pub date",
			rec: RawRecord{Citation: &rawCitation{PMID: pmid("4"), Article: &rawArticle{
				Journal: &rawJournal{Issue: &rawJournalIssue{}},
			}}},
			want: types.Article{ID: "4"},
		},
		{
			name: "abstract with no segments",
			rec: RawRecord{Citation: &rawCitation{PMID: pmid(" 5 "), Article: &rawArticle{
				Abstract: &rawAbstract{},
			}}},
			want: types.Article{ID: "5"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.rec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeRejectsRecordsWithoutIdentifier(t *testing.T) {
	_, err := Normalize(RawRecord{})
	assert.ErrorIs(t, err, ErrNoCitation)

	_, err = Normalize(RawRecord{Citation: &rawCitation{Article: &rawArticle{}}})
	assert.ErrorIs(t, err, ErrNoIdentifier)

	blank := text("   ")
	_, err = Normalize(RawRecord{Citation: &rawCitation{PMID: &blank}})
	assert.ErrorIs(t, err, ErrNoIdentifier)
}

func TestFirstAuthor(t *testing.T) {
	name := func(s string) *text { v := text(s); return &v }
	tests := []struct {
		name   string
		author rawAuthor
		want   string
	}{
		{"last and fore", rawAuthor{LastName: name("Zhang"), ForeName: name("Feng")}, "Zhang Feng"},
		{"last only", rawAuthor{LastName: name("Zhang")}, "Zhang"},
		{"fore only", rawAuthor{ForeName: name("Feng")}, "Feng"},
		{"collective", rawAuthor{CollectiveName: name("CRISPR Consortium")}, "CRISPR Consortium"},
		{"nothing", rawAuthor{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &rawArticle{AuthorList: &rawAuthorList{Authors: []rawAuthor{tt.author, {LastName: name("Second")}}}}
			assert.Equal(t, tt.want, firstAuthor(a))
		})
	}

	assert.Equal(t, "", firstAuthor(&rawArticle{}))
}

func TestComposeDate(t *testing.T) {
	tests := []struct {
		year, month, day string
		want             string
	}{
		{"2024", "07", "15", "2024-07-15"},
		{"2024", "07", "", "2024-07"},
		{"2024", "", "", "2024"},
		{"2024", "", "15", "2024"},
		{"2024", "Jul", "", "2024-Jul"},
		{"", "07", "15", ""},
		{"", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, composeDate(tt.year, tt.month, tt.day))
		})
	}
}

func TestMedlineDateOnlyYieldsEmptyDate(t *testing.T) {
	doc := `<PubmedArticleSet><PubmedArticle><MedlineCitation><PMID>7</PMID><Article>
  <Journal><JournalIssue><PubDate><MedlineDate>2024 Jul-Aug</MedlineDate></PubDate></JournalIssue></Journal>
</Article></MedlineCitation></PubmedArticle></PubmedArticleSet>`
	records, err := DecodeRecords(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, records, 1)

	a, err := Normalize(records[0])
	require.NoError(t, err)
	assert.Equal(t, "", a.PublicationDate)
}
