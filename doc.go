/*
Package materials-sheets maintains a metro tunnel materials list (物资清单) stored as a Google Sheets spreadsheet.

materials-sheets runs a small web service that updates the title cells of the worksheet, shows the recalculated
sheet and downloads it either as a PDF rendered by Google Drive or as a formatted Excel workbook with a merged
title, a single or dual row header, thin borders, fixed column widths and '#,##0.00' number formats.

materials-sheets supports the following commands:

  - run, to run the web service
  - export, to save the worksheet as a formatted Excel workbook
  - pdf, to save the spreadsheet as a PDF
  - get, to download the worksheet as a TSV file
  - put, to update worksheet cells from a TSV file
  - authorise, to authorise application access to the Google Sheets spreadsheet
  - version
*/
package sheets
